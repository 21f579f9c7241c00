// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

// parser.go is the RWX Directive Parser (§4.5): a line-oriented state
// machine over a Context, grounded on load/obj.go's bufio line reader
// and first-token dispatch, generalized from a single switch to the
// ordered regex table in directives.go so the larger RWX directive set
// stays data, not a sprawling switch statement. protobegin/protoend
// divert the same dispatch loop into capture mode instead of executing
// lines, so the prototype engine and the live parser share one set of
// directive handlers.

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Parser holds the live Context plus prototype-capture state.
type Parser struct {
	ctx    *Context
	protos *PrototypeTable

	capturing    bool
	captureName  string
	captureLines []string
}

// NewParser returns a Parser that will build its scene graph under
// root.
func NewParser(root *Node) *Parser {
	return &Parser{ctx: NewContext(root), protos: NewPrototypeTable()}
}

// Context returns the parser's live Context, for inspecting the
// resulting scene graph and any accumulated warnings after Parse.
func (p *Parser) Context() *Context { return p.ctx }

// Parse reads r line by line, stripping comments and blank lines, and
// dispatches each remaining line. A malformed line never aborts the
// parse (§7): the worst case is a Warn and a skipped directive. Parse
// itself only returns an error for an underlying read failure.
func (p *Parser) Parse(r io.Reader) error {
	reader := bufio.NewReader(r)
	for {
		raw, err := reader.ReadString('\n')
		line := strings.TrimSpace(stripComment(raw))
		if line != "" {
			p.dispatch(line)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// stripComment removes a trailing "# ..." comment, the legacy RWX
// comment marker.
func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

// dispatch routes one preprocessed line either into prototype capture
// or through the ordered directive table. An unrecognized directive is
// silently skipped (§7 forward-compat), after being recorded as a
// warning for diagnostic purposes only.
func (p *Parser) dispatch(line string) {
	if p.capturing {
		if reProtoEnd.MatchString(line) {
			p.endCapture()
			return
		}
		p.captureLines = append(p.captureLines, line)
		return
	}
	for _, d := range directiveTable {
		if m := d.re.FindStringSubmatch(line); m != nil {
			d.handler(p, m)
			return
		}
	}
	p.ctx.Warn("unrecognized directive: " + strconv.Quote(line))
}

func (p *Parser) beginCapture(name string) {
	p.capturing = true
	p.captureName = name
	p.captureLines = nil
}

func (p *Parser) endCapture() {
	p.protos.Define(p.captureName, p.captureLines)
	p.capturing = false
	p.captureName = ""
	p.captureLines = nil
}

// replayPrototype executes a captured prototype's lines under a fresh
// child clump at the instance site, so the instance gets its own
// node (and thus its own Loc/Rot/Scale and mesh) even though every
// instance replays identical source lines (testable property 6).
//
// §4.7 step 6: when the prototype body itself contains a `transform`
// directive, that directive defines an absolute frame for the
// instance (the "headboard/footboard" case), so the instance's final
// transform is taken directly rather than composed under the caller's
// transform; otherwise the caller's transform is baked in as usual.
func (p *Parser) replayPrototype(name string) {
	def, ok := p.protos.Lookup(name)
	if !ok {
		p.ctx.Warn("protoinstance: unknown prototype " + strconv.Quote(name))
		return
	}
	p.ctx.EnterClump(name)
	for _, line := range def.Lines {
		p.dispatch(line)
	}
	if def.HasTransform {
		p.ctx.ExitClumpAbsolute()
	} else {
		p.ctx.ExitClump()
	}
}
