package config

import "io"

// HalfTarget selects how a paired side's target is split between its halves.
type HalfTarget string

const (
	// Half splits evenly.
	Half HalfTarget = "half"
	// Simple splits triangles by their side lengths.
	Simple HalfTarget = "simple"
)

// Objective is the deviation cost of paired-side edges.
type Objective string

const (
	AbsObjective  Objective = "abs"
	QuadObjective Objective = "quad"
)

// Paired weights the edges of paired sides for one solve round.
type Paired struct {
	IsoWeight     float64   `yaml:"isoWeight"`
	IsoObjective  Objective `yaml:"isoObjective"`
	UnalignWeight float64   `yaml:"unalignWeight"`
}

// FlowConfig tunes the flow network. PairedResolve applies to the re-solve
// round; with PairedResolveNewTargets the half targets of that round are
// rescaled from the first round's split.
type FlowConfig struct {
	PairedHalfTarget        HalfTarget `yaml:"pairedHalfTarget"`
	PairedResolveNewTargets bool       `yaml:"pairedResolveNewTargets"`
	PairedInitial           Paired     `yaml:"pairedInitial"`
	PairedResolve           Paired     `yaml:"pairedResolve"`
}

// DefaultPaired is the stock paired-side weighting.
func DefaultPaired() Paired {
	return Paired{IsoWeight: .5, IsoObjective: AbsObjective, UnalignWeight: 1}
}

// DefaultFlowConfig returns the stock flow configuration.
func DefaultFlowConfig() FlowConfig {
	return FlowConfig{
		PairedHalfTarget: Half,
		PairedInitial:    DefaultPaired(),
		PairedResolve:    DefaultPaired(),
	}
}

func (p *Paired) validate(prefix string) error {
	switch {
	case p.IsoWeight < 0:
		return invalid(prefix+".isoWeight", "%g is negative", p.IsoWeight)
	case p.IsoObjective != AbsObjective && p.IsoObjective != QuadObjective:
		return invalid(prefix+".isoObjective", "%q, want %q or %q", p.IsoObjective, AbsObjective, QuadObjective)
	case p.UnalignWeight < 0:
		return invalid(prefix+".unalignWeight", "%g is negative", p.UnalignWeight)
	}

	return nil
}

// Validate checks enums and ranges.
func (c *FlowConfig) Validate() error {
	if c.PairedHalfTarget != Half && c.PairedHalfTarget != Simple {
		return invalid("pairedHalfTarget", "%q, want %q or %q", c.PairedHalfTarget, Half, Simple)
	}
	if err := c.PairedInitial.validate("pairedInitial"); err != nil {
		return err
	}

	return c.PairedResolve.validate("pairedResolve")
}

// ReadFlowConfig decodes a flow document over the defaults.
func ReadFlowConfig(r io.Reader) (*FlowConfig, error) {
	c := DefaultFlowConfig()
	if err := decode(r, c.fields()); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadFlowConfig reads the flow document at path.
func LoadFlowConfig(path string) (*FlowConfig, error) {
	var c *FlowConfig
	err := withFile(path, func(r io.Reader) (err error) {
		c, err = ReadFlowConfig(r)
		return err
	})

	return c, err
}

func (p *Paired) fields() fieldSet {
	return fieldSet{
		"isoWeight":     &p.IsoWeight,
		"isoObjective":  &p.IsoObjective,
		"unalignWeight": &p.UnalignWeight,
	}
}

func (c *FlowConfig) fields() fieldSet {
	return fieldSet{
		"pairedHalfTarget":        &c.PairedHalfTarget,
		"pairedResolveNewTargets": &c.PairedResolveNewTargets,
		"pairedInitial":           c.PairedInitial.fields(),
		"pairedResolve":           c.PairedResolve.fields(),
	}
}
