package eidos

// EventKind names which life-cycle hook a script block responds to
// (§6). An absent kind in source defaults to EventEarly.
type EventKind string

const (
	EventEarly         EventKind = "early"
	EventLate          EventKind = "late"
	EventInitialize    EventKind = "initialize"
	EventFitness       EventKind = "fitness"
	EventMateChoice    EventKind = "mateChoice"
	EventModifyChild   EventKind = "modifyChild"
	EventRecombination EventKind = "recombination"
)

var eventKinds = map[string]EventKind{
	"early":          EventEarly,
	"late":           EventLate,
	"initialize":     EventInitialize,
	"fitness":        EventFitness,
	"mateChoice":     EventMateChoice,
	"modifyChild":    EventModifyChild,
	"recombination":  EventRecombination,
}

// ScriptBlock is one top-level `<gen>[:<gen2>] [<event-kind>] { ... }`
// unit (§6): a statement body that activates for every generation g
// with StartGen <= g <= EndGen, under the given EventKind.
type ScriptBlock struct {
	StartGen int
	EndGen   int
	Kind     EventKind
	Body     *Node
}

// Active reports whether b is registered for generation g.
func (b *ScriptBlock) Active(g int) bool {
	return g >= b.StartGen && g <= b.EndGen
}

// ParseScript parses src as a sequence of top-level script blocks
// rather than the bare statement list Parse produces: every top-level
// form here must open with a generation number (§6).
func ParseScript(src string) ([]*ScriptBlock, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var blocks []*ScriptBlock
	for !p.at(TokEOF, "") {
		b, err := p.scriptBlock()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func (p *parser) scriptBlock() (*ScriptBlock, error) {
	startTok, err := p.expect(TokInt, "")
	if err != nil {
		return nil, err
	}
	start := int(startTok.IVal)
	end := start
	if p.at(TokOp, ":") {
		p.advance()
		endTok, err := p.expect(TokInt, "")
		if err != nil {
			return nil, err
		}
		end = int(endTok.IVal)
	}
	kind := EventEarly
	if p.at(TokIdent, "") {
		name := p.cur().Text
		k, ok := eventKinds[name]
		if !ok {
			return nil, &ParseError{Pos: p.cur().Pos, Msg: "unknown script block event kind " + name}
		}
		kind = k
		p.advance()
		// An event kind may carry a parenthesized target, e.g.
		// fitness(m1) or mateChoice(p1); the registry here keys only on
		// (generation range, kind), so the target is parsed to keep the
		// grammar well-formed and discarded.
		if p.at(TokOp, "(") {
			p.advance()
			depth := 1
			for depth > 0 {
				if p.at(TokEOF, "") {
					return nil, &ParseError{Pos: p.cur().Pos, Msg: "unterminated script block argument list"}
				}
				if p.at(TokOp, "(") {
					depth++
				} else if p.at(TokOp, ")") {
					depth--
				}
				p.advance()
			}
		}
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ScriptBlock{StartGen: start, EndGen: end, Kind: kind, Body: body}, nil
}
