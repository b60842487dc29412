package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	commandPrefix = "$"
	cdPrefix      = "$ cd "
	lsCommand     = "$ ls"
	dirPrefix     = "dir "
)

type state int

const (
	awaitingCommand state = iota
	consumingListing
)

// Parser is a two-state machine over transcript lines. It is not safe for
// concurrent use.
type Parser struct {
	lines []string
	pos   int
	state state
}

func NewParser(lines []string) *Parser {
	return &Parser{lines: lines}
}

// Line returns the number of lines consumed so far, which is the 1-based
// number of the line that produced the last event.
func (p *Parser) Line() int {
	return p.pos
}

// Next returns the next event, or io.EOF once the input is exhausted. Running
// out of input in the middle of a listing is not an error.
func (p *Parser) Next() (Event, error) {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		lineNo := p.pos + 1

		switch p.state {
		case awaitingCommand:
			p.pos++
			if line == lsCommand {
				p.state = consumingListing
				continue
			}
			if target, ok := strings.CutPrefix(line, cdPrefix); ok && validTarget(target) {
				return ChangeDirectory{Target: target}, nil
			}
			return nil, &ParseError{Line: lineNo, Text: line}

		case consumingListing:
			if strings.HasPrefix(line, commandPrefix) {
				// Leave the line in place for the command state.
				p.state = awaitingCommand
				continue
			}
			p.pos++
			ev, ok := parseEntry(line)
			if !ok {
				return nil, &ParseError{Line: lineNo, Text: line}
			}
			return ev, nil
		}
	}
	return nil, io.EOF
}

func parseEntry(line string) (Event, bool) {
	if name, ok := strings.CutPrefix(line, dirPrefix); ok {
		if !validName(name) {
			return nil, false
		}
		return DirectoryEntry{Name: name}, true
	}

	sizeText, name, ok := strings.Cut(line, " ")
	if !ok || name == "" {
		return nil, false
	}
	size, err := strconv.ParseUint(sizeText, 10, 64)
	if err != nil {
		return nil, false
	}
	return FileEntry{Size: size}, true
}

func validTarget(target string) bool {
	return target == RootTarget || target == ParentTarget || validName(target)
}

// validName accepts a single path component.
func validName(name string) bool {
	return name != "" && name != "." && name != ParentTarget && !strings.Contains(name, "/")
}

// Parse converts a whole transcript into its event sequence.
func Parse(lines []string) ([]Event, error) {
	p := NewParser(lines)
	events := make([]Event, 0, len(lines))
	for {
		ev, err := p.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
}

// ReadLines splits r into lines, dropping line terminators (LF or CRLF).
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return lines, nil
}
