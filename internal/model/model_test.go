package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		total, max float64
		want       int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 30, 0},
		{8, 30, 27},
		{28, 30, 93},
		{15, 30, 50},
		{30, 30, 100},
		{1, 3, 33},
		{2, 3, 67},
	}
	for _, tt := range tests {
		if got := Percent(tt.total, tt.max); got != tt.want {
			t.Errorf("Percent(%v, %v) = %d, want %d", tt.total, tt.max, got, tt.want)
		}
	}
}

func TestSessionExpired(t *testing.T) {
	start := time.Now()
	session := Session{StartedAt: start}

	if session.Expired(start.Add(59*time.Minute), 60) {
		t.Error("expired at minute 59 of a 60 minute window")
	}
	if session.Expired(start.Add(60*time.Minute), 60) {
		t.Error("expired exactly at the limit; the boundary belongs to the window")
	}
	if !session.Expired(start.Add(61*time.Minute), 60) {
		t.Error("not expired at minute 61")
	}
}

func TestAssignedListNormalization(t *testing.T) {
	var a Assessment
	err := a.SetAssignedList([]string{" A@Example.com ", "a@example.com", "", "b@example.com"})
	if err != nil {
		t.Fatalf("SetAssignedList: %v", err)
	}

	list := a.AssignedList()
	if len(list) != 2 {
		t.Fatalf("list = %v, want 2 entries", list)
	}
	if list[0] != "a@example.com" || list[1] != "b@example.com" {
		t.Errorf("list = %v, want lowercased trimmed entries in input order", list)
	}

	if !a.IsAssigned("A@EXAMPLE.COM") {
		t.Error("IsAssigned should be case insensitive")
	}
	if a.IsAssigned("c@example.com") {
		t.Error("IsAssigned matched an email not on the list")
	}
}

func TestMaxScore(t *testing.T) {
	a := Assessment{Questions: []Question{{Points: 10}, {Points: 20}, {Points: 2.5}}}
	if got := a.MaxScore(); got != 32.5 {
		t.Errorf("MaxScore = %v, want 32.5", got)
	}
	var empty Assessment
	if got := empty.MaxScore(); got != 0 {
		t.Errorf("MaxScore of empty assessment = %v, want 0", got)
	}
}

func TestQuestionVariant(t *testing.T) {
	cases, _ := json.Marshal([]TestCase{{Input: "in", Expected: "out", Hidden: true}})
	options, _ := json.Marshal([]string{"a", "b", "c"})
	correct := 2

	programmingQ := Question{Type: QuestionProgramming, TestCases: cases}
	p, th, m := programmingQ.Variant()
	if p == nil || th != nil || m != nil {
		t.Fatalf("programming variant = (%v, %v, %v)", p, th, m)
	}
	if len(p.TestCases) != 1 || !p.TestCases[0].Hidden {
		t.Errorf("test cases = %+v", p.TestCases)
	}

	theoryQ := Question{Type: QuestionTheory}
	p, th, m = theoryQ.Variant()
	if p != nil || th == nil || m != nil {
		t.Fatalf("theory variant = (%v, %v, %v)", p, th, m)
	}

	mcqQ := Question{Type: QuestionMCQ, Options: options, CorrectOption: &correct}
	p, th, m = mcqQ.Variant()
	if p != nil || th != nil || m == nil {
		t.Fatalf("mcq variant = (%v, %v, %v)", p, th, m)
	}
	if len(m.Options) != 3 || m.CorrectOption != 2 {
		t.Errorf("mcq spec = %+v", m)
	}
}
