// Package tagcell is the multi-value tag cell for the grid: colored tag
// bubbles painted into a cell, a searchable multi-select editor overlay,
// and a comma-separated clipboard form.
package tagcell

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Option is one normalized candidate tag.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// OptionInput is a loosely specified option: either a bare string or a
// {value, label, color} record. A nil/null entry decodes to the zero value.
type OptionInput struct {
	Value string
	Label *string
	Color *string
	// Bare is set when the input was a plain string.
	Bare bool
}

// Bare returns an input for a plain string option.
func Bare(s string) OptionInput {
	return OptionInput{Value: s, Bare: true}
}

// Record returns an input for a record option. Empty label or color are treated as absent.
func Record(value, label, color string) OptionInput {
	in := OptionInput{Value: value}
	if label != "" {
		in.Label = &label
	}
	if color != "" {
		in.Color = &color
	}
	return in
}

// OptionInputs is an option list as it appears in sheet files.
type OptionInputs []OptionInput

// Inputs wraps plain strings as option inputs.
func Inputs(values ...string) OptionInputs {
	out := make(OptionInputs, 0, len(values))
	for _, v := range values {
		out = append(out, Bare(v))
	}
	return out
}

// Input lifts a normalized option back into input form.
func (o Option) Input() OptionInput {
	label := o.Label
	in := OptionInput{Value: o.Value, Label: &label}
	if o.Color != "" {
		color := o.Color
		in.Color = &color
	}
	return in
}

// NormalizeOptions converts option inputs into canonical options: the label
// defaults to the value and the color stays empty when absent.
func NormalizeOptions(in []OptionInput) []Option {
	out := make([]Option, 0, len(in))
	for _, o := range in {
		n := Option{Value: o.Value, Label: o.Value}
		if !o.Bare {
			if o.Label != nil {
				n.Label = *o.Label
			}
			if o.Color != nil {
				n.Color = *o.Color
			}
		}
		out = append(out, n)
	}
	return out
}

type optionRecord struct {
	Value string  `json:"value" yaml:"value"`
	Label *string `json:"label,omitempty" yaml:"label,omitempty"`
	Color *string `json:"color,omitempty" yaml:"color,omitempty"`
}

func (o OptionInput) record() optionRecord {
	return optionRecord{Value: o.Value, Label: o.Label, Color: o.Color}
}

func (o OptionInput) MarshalJSON() ([]byte, error) {
	if o.Bare {
		return json.Marshal(o.Value)
	}
	return json.Marshal(o.record())
}

func (o *OptionInput) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = OptionInput{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = Bare(s)
		return nil
	}
	var r optionRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return fmt.Errorf("option: expected string or {value,label,color}: %w", err)
	}
	*o = OptionInput{Value: r.Value, Label: r.Label, Color: r.Color}
	return nil
}

func (o OptionInput) MarshalYAML() (any, error) {
	if o.Bare {
		return o.Value, nil
	}
	return o.record(), nil
}

// UnmarshalYAML decodes every item, keeping null items as empty options.
// yaml.v3 skips unmarshalers for null nodes, so the list walks its own items.
func (in *OptionInputs) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.SequenceNode {
		return fmt.Errorf("options: line %d: expected a list", n.Line)
	}
	out := make(OptionInputs, 0, len(n.Content))
	for _, item := range n.Content {
		var o OptionInput
		if err := o.UnmarshalYAML(item); err != nil {
			return err
		}
		out = append(out, o)
	}
	*in = out
	return nil
}

func (o *OptionInput) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			*o = OptionInput{}
			return nil
		}
		*o = Bare(n.Value)
		return nil
	case yaml.MappingNode:
		var r optionRecord
		if err := n.Decode(&r); err != nil {
			return err
		}
		*o = OptionInput{Value: r.Value, Label: r.Label, Color: r.Color}
		return nil
	default:
		return fmt.Errorf("option: line %d: expected string or mapping", n.Line)
	}
}
