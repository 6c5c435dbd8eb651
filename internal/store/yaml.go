package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadSheetYAML decodes and normalizes a sheet document.
func ReadSheetYAML(r io.Reader) (*Sheet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var sh Sheet
	if err := dec.Decode(&sh); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty sheet document")
		}
		return nil, fmt.Errorf("decode sheet: %w", err)
	}
	if err := sh.Normalize(); err != nil {
		return nil, err
	}
	return &sh, nil
}

func ReadSheetFile(path string) (*Sheet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sh, err := ReadSheetYAML(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sh, nil
}

func WriteSheetYAML(w io.Writer, sh *Sheet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sh); err != nil {
		return err
	}
	return enc.Close()
}
