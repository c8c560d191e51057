// Package prompt asks the user questions on the terminal. Commands go
// through Default so tests can swap in a Mock.
package prompt

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user quits a prompt with esc or ctrl+c.
var ErrCancelled = errors.New("prompt cancelled")

type InputConfig struct {
	Title       string
	Description string
	Placeholder string
	// Value prefills the input.
	Value    string
	Validate func(string) error
}

type ConfirmConfig struct {
	Title       string
	Description string
	Affirmative string
	Negative    string
	Default     bool
}

type SelectOption struct {
	Label string
	Value string
}

// SelectConfig describes a single-choice prompt. Default is the value
// highlighted initially.
type SelectConfig struct {
	Title       string
	Description string
	Options     []SelectOption
	Default     string
}

type Prompter interface {
	Input(cfg InputConfig) (string, error)
	Confirm(cfg ConfirmConfig) (bool, error)
	Select(cfg SelectConfig) (string, error)
}

// Default is the prompter used by commands.
var Default Prompter = &Huh{}

// SetDefault replaces Default.
func SetDefault(p Prompter) {
	Default = p
}

// Huh implements Prompter with one-field huh forms.
type Huh struct{}

func (Huh) Input(cfg InputConfig) (string, error) {
	value := cfg.Value
	field := huh.NewInput().
		Title(cfg.Title).
		Description(cfg.Description).
		Placeholder(cfg.Placeholder).
		Value(&value)
	if cfg.Validate != nil {
		field.Validate(cfg.Validate)
	}
	return value, ask(field)
}

func (Huh) Confirm(cfg ConfirmConfig) (bool, error) {
	value := cfg.Default
	field := huh.NewConfirm().
		Title(cfg.Title).
		Description(cfg.Description).
		Value(&value)
	if cfg.Affirmative != "" {
		field.Affirmative(cfg.Affirmative)
	}
	if cfg.Negative != "" {
		field.Negative(cfg.Negative)
	}
	return value, ask(field)
}

func (Huh) Select(cfg SelectConfig) (string, error) {
	value := cfg.Default
	options := make([]huh.Option[string], 0, len(cfg.Options))
	for _, opt := range cfg.Options {
		options = append(options, huh.NewOption(opt.Label, opt.Value))
	}
	field := huh.NewSelect[string]().
		Title(cfg.Title).
		Description(cfg.Description).
		Options(options...).
		Value(&value)
	return value, ask(field)
}

// ask runs a form holding field. Escape quits as well as ctrl+c.
func ask(field huh.Field) error {
	keymap := huh.NewDefaultKeyMap()
	keymap.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"))

	err := huh.NewForm(huh.NewGroup(field)).WithKeyMap(keymap).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
