package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"sigs.k8s.io/yaml"

	"github.com/wippyai/pdbtypes/errors"
	"github.com/wippyai/pdbtypes/symtab"
	"github.com/wippyai/pdbtypes/tpi"
)

// report is everything one run prints.
type report struct {
	Stats       tpi.Stats         `json:"stats"`
	File        string            `json:"file"`
	Unavailable string            `json:"unavailable,omitempty"`
	Symbols     []*symtab.Symbol  `json:"symbols"`
	Conflicts   []symtab.Conflict `json:"conflicts,omitempty"`
	Duplicates  int               `json:"duplicates"`
}

func newReport(file string, tab *symtab.Table, stats tpi.Stats) *report {
	return &report{
		File:       file,
		Stats:      stats,
		Symbols:    tab.Symbols(),
		Conflicts:  tab.Conflicts(),
		Duplicates: tab.Duplicates(),
	}
}

type writeFunc func(io.Writer, *report) error

func writerFor(format string, styled bool) (writeFunc, error) {
	switch format {
	case "text", "":
		st := plainStyles()
		if styled {
			st = termStyles()
		}
		return func(w io.Writer, r *report) error { return writeText(w, r, st) }, nil
	case "json":
		return writeJSON, nil
	case "yaml":
		return writeYAML, nil
	default:
		return nil, errors.InvalidInput(errors.PhaseOutput, fmt.Sprintf("unknown format %q", format))
	}
}

func writeJSON(w io.Writer, r *report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(errors.PhaseOutput, errors.KindUnsupported, err, "json")
	}
	return nil
}

func writeYAML(w io.Writer, r *report) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(errors.PhaseOutput, errors.KindUnsupported, err, "yaml")
	}
	_, err = w.Write(out)
	return err
}

type styles struct {
	title, name, value, typ, warn lipgloss.Style
}

func plainStyles() styles {
	s := lipgloss.NewStyle()
	return styles{title: s, name: s, value: s, typ: s, warn: s}
}

func termStyles() styles {
	return styles{
		title: titleStyle,
		name:  nameStyle,
		value: valueStyle,
		typ:   typeStyle,
		warn:  errorStyle,
	}
}

func writeText(w io.Writer, r *report, st styles) error {
	var b strings.Builder

	if r.Unavailable != "" {
		b.WriteString(st.warn.Render("no type information: " + r.Unavailable))
		b.WriteString("\n")
	}

	for _, s := range r.Symbols {
		b.WriteString(formatEnum(s.Type, st))
		b.WriteString("\n")
		for _, f := range s.Type.Fields {
			fmt.Fprintf(&b, "    %s = %s\n", st.name.Render(f.Name), st.value.Render(formatValue(s.Type, f.Value)))
		}
	}

	for _, c := range r.Conflicts {
		b.WriteString(st.warn.Render(fmt.Sprintf("conflict: %s %s redefined by %s",
			c.Kept.Name, c.Kept.Type.ID, c.Rejected.ID)))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%d types, %d enums, %d emitted, %d forward references, %d duplicates",
		r.Stats.Types, r.Stats.Enums, r.Stats.Emitted, r.Stats.ForwardRefs, r.Duplicates)
	if n := warningCount(r.Stats); n > 0 {
		fmt.Fprintf(&b, ", %s", st.warn.Render(fmt.Sprintf("%d warnings", n)))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// formatEnum renders the one-line declaration of e.
func formatEnum(e *tpi.Enum, st styles) string {
	storage := "?"
	if e.Underlying.Known() {
		storage = fmt.Sprintf("%s, %d bytes", e.Underlying.Name, e.Size())
	}
	return fmt.Sprintf("%s %s (%s)", st.title.Render("enum "+e.Name), e.ID, st.typ.Render(storage))
}

// formatValue prints values of unsigned storage as unsigned.
func formatValue(e *tpi.Enum, v int64) string {
	if e.Underlying.Sign == tpi.SignUnsigned {
		size := e.Size()
		if size > 0 && size < 8 {
			return fmt.Sprintf("%d", uint64(v)&(1<<(8*size)-1))
		}
		return fmt.Sprintf("%d", uint64(v))
	}
	return fmt.Sprintf("%d", v)
}

func warningCount(s tpi.Stats) int {
	n := 0
	for _, c := range s.Warnings {
		n += c
	}
	return n
}
