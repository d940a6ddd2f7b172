package eidos

import "testing"

func TestParseScriptGenerationRange(t *testing.T) {
	blocks, err := ParseScript("1:10 early { x = 1; } 5 late { y = 2; }")
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].StartGen != 1 || blocks[0].EndGen != 10 || blocks[0].Kind != EventEarly {
		t.Errorf("block 0 = %+v, want StartGen=1 EndGen=10 Kind=early", blocks[0])
	}
	if blocks[1].StartGen != 5 || blocks[1].EndGen != 5 || blocks[1].Kind != EventLate {
		t.Errorf("block 1 = %+v, want StartGen=5 EndGen=5 Kind=late", blocks[1])
	}
}

func TestParseScriptDefaultsToEarly(t *testing.T) {
	blocks, err := ParseScript("1 { x = 1; }")
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if blocks[0].Kind != EventEarly {
		t.Errorf("block with no event kind = %v, want EventEarly", blocks[0].Kind)
	}
}

func TestParseScriptDiscardsParenthesizedTarget(t *testing.T) {
	blocks, err := ParseScript("1 fitness(m1) { 1.0; } 1 mateChoice(p1) { candidate; }")
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Kind != EventFitness || blocks[1].Kind != EventMateChoice {
		t.Errorf("kinds = %v, %v, want fitness, mateChoice", blocks[0].Kind, blocks[1].Kind)
	}
}

func TestScriptBlockActiveRange(t *testing.T) {
	b := &ScriptBlock{StartGen: 5, EndGen: 10}
	cases := map[int]bool{4: false, 5: true, 7: true, 10: true, 11: false}
	for g, want := range cases {
		if got := b.Active(g); got != want {
			t.Errorf("Active(%d) = %v, want %v", g, got, want)
		}
	}
}

func TestParseScriptUnknownEventKindFails(t *testing.T) {
	_, err := ParseScript("1 bogusKind { 1; }")
	if err == nil {
		t.Fatal("expected a parse error for an unknown event kind")
	}
}
