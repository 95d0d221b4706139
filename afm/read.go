// seehuhn.de/go/afmc - compile AFM font metrics into Go lookup tables
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package afm

import (
	"bufio"
	"cmp"
	"crypto/md5"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/afmc/kern"
)

// Read parses an AFM file.
//
// Kerning pairs are passed to opt.Kern.  If an error is returned, some
// pairs of the file may already have been passed on.
func Read(r io.Reader, opt *ReadOptions) (*Face, error) {
	if opt == nil {
		opt = &ReadOptions{}
	}
	p := &parser{
		opt:       opt,
		toUnicode: opt.ToUnicode,
		face:      &Face{Weight: 400},
	}
	if p.toUnicode == nil {
		p.toUnicode = StandardNames
	}

	digest := md5.New()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		raw := scanner.Text()
		io.WriteString(digest, raw)

		err := p.processLine(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s%w", location(opt.FileName, p.line), err)
	}

	if len(p.stack) > 0 {
		return nil, p.errorf("unexpected end of file inside %s section",
			p.stack[len(p.stack)-1].sec)
	}
	if !p.done {
		return nil, p.errorf("no FontMetrics section found")
	}

	f := p.face
	if f.FontName == "" {
		return nil, p.errorf("missing FontName")
	}
	if f.BuiltinEncoding() {
		slices.SortStableFunc(f.Glyphs, func(a, b Glyph) int {
			return cmp.Compare(a.Code, b.Code)
		})
	} else {
		slices.SortStableFunc(f.Glyphs, func(a, b Glyph) int {
			return cmp.Compare(a.Unicode, b.Unicode)
		})
	}
	copy(f.Hash[:], digest.Sum(nil))

	return f, nil
}

type frame struct {
	sec   section
	count int // number of entries announced on the Start line, or -1
	seen  int
}

type parser struct {
	opt       *ReadOptions
	toUnicode UnicodeFunc
	face      *Face

	stack []frame
	done  bool
	line  int
}

func (p *parser) processLine(line string) error {
	if line == "" {
		return nil
	}
	if p.done {
		return p.errorf("unexpected data after EndFontMetrics")
	}

	key, val := splitKeyword(line)
	if name, ok := strings.CutPrefix(key, "Start"); ok && name != "" {
		return p.start(name, val)
	}
	if name, ok := strings.CutPrefix(key, "End"); ok && name != "" {
		return p.end(name)
	}

	if len(p.stack) == 0 {
		return p.errorf("%q outside of any section", key)
	}
	if key == "Comment" {
		return nil
	}
	top := &p.stack[len(p.stack)-1]
	switch top.sec {
	case secFontMetrics:
		return p.fontMetrics(key, val)
	case secCharMetrics:
		top.seen++
		return p.charMetrics(line)
	case secKernPairs:
		top.seen++
		return p.kernPair(line)
	default:
		return p.errorf("unexpected %q in %s section", key, top.sec)
	}
}

func (p *parser) start(name, val string) error {
	sec, ok := sectionByName[name]
	if !ok {
		return p.errorf("unknown section %q", name)
	}

	var outer section
	if len(p.stack) > 0 {
		outer = p.stack[len(p.stack)-1].sec
	}
	if sec.parent() != outer {
		if outer == 0 {
			return p.errorf("%s section outside of %s", sec, sec.parent())
		}
		return p.errorf("%s section inside %s section", sec, outer)
	}

	count := -1
	if val != "" && sec.counted() {
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return p.errorf("invalid entry count %q for %s", val, sec)
		}
		count = n
	}
	p.stack = append(p.stack, frame{sec: sec, count: count})
	return nil
}

func (p *parser) end(name string) error {
	sec, ok := sectionByName[name]
	if !ok {
		return p.errorf("unknown section %q", name)
	}
	if len(p.stack) == 0 {
		return p.errorf("End%s without Start%s", name, name)
	}

	top := p.stack[len(p.stack)-1]
	if top.sec != sec {
		return p.errorf("End%s inside %s section", name, top.sec)
	}
	if top.count >= 0 && top.count != top.seen {
		return p.errorf("%s section has %d entries, but %d were announced",
			sec, top.seen, top.count)
	}
	p.stack = p.stack[:len(p.stack)-1]

	if sec == secFontMetrics {
		p.done = true
	}
	return nil
}

func (p *parser) fontMetrics(key, val string) error {
	kw, ok := keywords[key]
	if !ok {
		return p.errorf("unknown keyword %q", key)
	}
	switch kw {
	case kwIgnored:
		return nil
	case kwUnsupported:
		return p.errorf("unsupported keyword %q", key)
	}
	if val == "" {
		return p.errorf("missing value for %s", key)
	}

	f := p.face
	switch kw {
	case kwFontName:
		f.FontName = val
	case kwFullName:
		f.FullName = val
	case kwFamilyName:
		f.FamilyName = val
	case kwEncodingScheme:
		f.EncodingScheme = val
	case kwCharacterSet:
		f.CharacterSet = val
	case kwItalicAngle:
		x, err := strconv.ParseFloat(val, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return p.errorf("invalid ItalicAngle %q", val)
		}
		f.ItalicAngle = x
	case kwFontBBox:
		bbox, err := parseRect(strings.Fields(val))
		if err != nil {
			return p.errorf("invalid FontBBox %q", val)
		}
		f.FontBBox = bbox
	case kwIsFixedPitch:
		switch val {
		case "true":
			f.IsFixedPitch = true
		case "false":
			f.IsFixedPitch = false
		default:
			return p.errorf("invalid IsFixedPitch %q", val)
		}
	case kwWeight:
		w, ok := weightClass[val]
		if !ok {
			return p.errorf("unknown Weight %q", val)
		}
		f.Weight = w
	case kwMetricsSets:
		if val != "0" {
			return p.errorf("unsupported MetricsSets %s", val)
		}
	default:
		x, err := parseInt16(val)
		if err != nil {
			return p.errorf("invalid %s %q", key, val)
		}
		*f.intField(kw) = x
	}
	return nil
}

func (f *Face) intField(kw keyword) *funit.Int16 {
	switch kw {
	case kwCapHeight:
		return &f.CapHeight
	case kwXHeight:
		return &f.XHeight
	case kwAscender:
		return &f.Ascender
	case kwDescender:
		return &f.Descender
	case kwUnderlinePosition:
		return &f.UnderlinePosition
	case kwUnderlineThickness:
		return &f.UnderlineThickness
	case kwStdHW:
		return &f.StdHW
	case kwStdVW:
		return &f.StdVW
	default:
		panic("unreachable")
	}
}

// charMetrics parses a line like
//
//	C 65 ; WX 667 ; N A ; B 14 0 654 718 ;
func (p *parser) charMetrics(line string) error {
	g := Glyph{Code: -1}
	var hasCode, hasWidth, hasBBox bool
	for _, field := range strings.Split(line, ";") {
		ff := strings.Fields(field)
		if len(ff) == 0 {
			continue
		}
		key, args := ff[0], ff[1:]

		var err error
		switch key {
		case "C":
			if len(args) != 1 {
				return p.errorf("invalid character code %q", field)
			}
			g.Code, err = strconv.Atoi(args[0])
			hasCode = true
		case "CH":
			if len(args) != 1 || len(args[0]) < 3 ||
				args[0][0] != '<' || args[0][len(args[0])-1] != '>' {
				return p.errorf("invalid character code %q", field)
			}
			var c uint64
			c, err = strconv.ParseUint(args[0][1:len(args[0])-1], 16, 16)
			g.Code = int(c)
			hasCode = true
		case "WX", "W0X":
			if len(args) != 1 {
				return p.errorf("invalid width %q", field)
			}
			g.WidthX, err = parseInt16(args[0])
			hasWidth = true
		case "N":
			if len(args) != 1 {
				return p.errorf("invalid glyph name %q", field)
			}
			g.Name = args[0]
		case "B":
			g.BBox, err = parseRect(args)
			hasBBox = true
		case "L":
			if len(args) != 2 {
				return p.errorf("invalid ligature %q", field)
			}
		default:
			return p.errorf("unknown CharMetrics key %q", key)
		}
		if err != nil {
			return p.errorf("invalid CharMetrics entry %q", strings.TrimSpace(field))
		}
	}

	switch {
	case !hasCode:
		return p.errorf("CharMetrics entry without character code")
	case g.Code < -1 || g.Code > math.MaxInt16:
		return p.errorf("character code %d out of range", g.Code)
	case !hasWidth:
		return p.errorf("CharMetrics entry without width")
	case g.Name == "":
		return p.errorf("CharMetrics entry without glyph name")
	case !hasBBox:
		return p.errorf("CharMetrics entry without bounding box")
	}

	r, ok := p.toUnicode(g.Name, p.face.FontName)
	if !ok {
		if !p.face.BuiltinEncoding() {
			return p.unmappable(g.Name)
		}
		r = 0
	}
	g.Unicode = r

	p.face.Glyphs = append(p.face.Glyphs, g)
	return nil
}

// kernPair parses a line like
//
//	KPX A W -80
func (p *parser) kernPair(line string) error {
	ff := strings.Fields(line)
	if ff[0] != "KPX" {
		return p.errorf("unsupported kerning entry %q", ff[0])
	}
	if len(ff) != 4 {
		return p.errorf("invalid kerning pair %q", line)
	}
	if p.face.FontName == "" {
		return p.errorf("kerning data before FontName")
	}

	left, ok := p.toUnicode(ff[1], p.face.FontName)
	if !ok {
		return p.unmappable(ff[1])
	}
	right, ok := p.toUnicode(ff[2], p.face.FontName)
	if !ok {
		return p.unmappable(ff[2])
	}
	adjust, err := parseInt16(ff[3])
	if err != nil {
		return p.errorf("invalid kerning value %q", ff[3])
	}

	pair := kern.Pair{Left: left, Right: right}
	if _, err := pair.Key(); err != nil {
		return p.errorf("kerning pair %s %s: %w", ff[1], ff[2], err)
	}

	if p.face.KernGetter == "" {
		p.face.KernGetter = GetterName(p.face.FontName)
	}
	if p.opt.Kern != nil {
		p.opt.Kern.Add(p.face.KernGetter, pair, adjust)
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &MalformedError{
		File: p.opt.FileName,
		Line: p.line,
		Err:  fmt.Errorf(format, args...),
	}
}

func (p *parser) unmappable(glyphName string) error {
	return &UnmappableGlyphError{
		File:  p.opt.FileName,
		Line:  p.line,
		Glyph: glyphName,
	}
}

// splitKeyword splits a line into the keyword and the remainder.
func splitKeyword(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func parseInt16(s string) (funit.Int16, error) {
	x, err := strconv.ParseInt(s, 10, 16)
	if err != nil {
		return 0, err
	}
	return funit.Int16(x), nil
}

func parseRect(ff []string) (funit.Rect16, error) {
	var res funit.Rect16
	if len(ff) != 4 {
		return res, fmt.Errorf("expected 4 numbers, got %d", len(ff))
	}
	var xx [4]funit.Int16
	for i, s := range ff {
		x, err := parseInt16(s)
		if err != nil {
			return res, err
		}
		xx[i] = x
	}
	res.LLx, res.LLy, res.URx, res.URy = xx[0], xx[1], xx[2], xx[3]
	return res, nil
}
