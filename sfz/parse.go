// SPDX-License-Identifier: EPL-2.0

package sfz

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Opcode is one key=value assignment with the line it came from.
type Opcode struct {
	Name  string
	Value string
	Line  int
}

// Section is the opcodes of one header, in file order.
type Section []Opcode

// Lookup returns the last value assigned to name.
func (s Section) Lookup(name string) (Opcode, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Name == name {
			return s[i], true
		}
	}
	return Opcode{}, false
}

// File is a parsed instrument description. Each region carries the
// opcodes it inherits from the enclosing <global> and <group> followed by
// its own, so later entries override earlier ones.
type File struct {
	Name    string
	Control Section
	Regions []Section
}

var (
	headerRE = regexp.MustCompile(`<([a-z]+)>`)
	opcodeRE = regexp.MustCompile(`([A-Za-z0-9_]+)=`)
)

type parser struct {
	f      *File
	name   string
	line   int
	header string

	global, group, region Section
	inRegion              bool
}

// Parse reads an SFZ description. Recognised headers are <control>,
// <global>, <group> and <region>; opcodes are collected without
// interpretation. name is used in error messages.
func Parse(r io.Reader, name string) (*File, error) {
	p := &parser{f: &File{Name: name}, name: name}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{File: name, Line: p.line, Msg: "read failed", Err: err}
	}
	p.flush()
	return p.f, nil
}

func (p *parser) parseLine(text string) error {
	if i := strings.Index(text, "//"); i >= 0 {
		text = text[:i]
	}

	for text != "" {
		loc := headerRE.FindStringSubmatchIndex(text)
		end := len(text)
		if loc != nil {
			end = loc[0]
		}
		if err := p.parseOpcodes(text[:end]); err != nil {
			return err
		}
		if loc == nil {
			return nil
		}
		if err := p.startSection(text[loc[2]:loc[3]]); err != nil {
			return err
		}
		text = text[loc[1]:]
	}
	return nil
}

func (p *parser) startSection(h string) error {
	p.flush()
	switch h {
	case "control":
	case "global":
		p.global, p.group = nil, nil
	case "group":
		p.group = nil
	case "region":
		p.inRegion = true
	default:
		return &ParseError{File: p.name, Line: p.line, Msg: "<" + h + ">", Err: ErrBadSection}
	}
	p.header = h
	return nil
}

// flush closes the current region, if any.
func (p *parser) flush() {
	if !p.inRegion {
		return
	}
	sec := make(Section, 0, len(p.global)+len(p.group)+len(p.region))
	sec = append(sec, p.global...)
	sec = append(sec, p.group...)
	sec = append(sec, p.region...)
	p.f.Regions = append(p.f.Regions, sec)
	p.region, p.inRegion = nil, false
}

// parseOpcodes splits text into name=value pairs. A value runs until the
// next opcode name, so sample paths may contain spaces.
func (p *parser) parseOpcodes(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	locs := opcodeRE.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 || strings.TrimSpace(text[:locs[0][0]]) != "" {
		return &ParseError{File: p.name, Line: p.line, Msg: fmt.Sprintf("unexpected %q", strings.TrimSpace(text))}
	}
	if p.header == "" {
		return &ParseError{File: p.name, Line: p.line, Msg: "opcode outside of a section"}
	}

	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		op := Opcode{
			Name:  text[loc[2]:loc[3]],
			Value: strings.TrimSpace(text[loc[1]:end]),
			Line:  p.line,
		}
		switch p.header {
		case "control":
			p.f.Control = append(p.f.Control, op)
		case "global":
			p.global = append(p.global, op)
		case "group":
			p.group = append(p.group, op)
		case "region":
			p.region = append(p.region, op)
		}
	}
	return nil
}
