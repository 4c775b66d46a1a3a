package compose

import (
	"testing"

	"winrtgen/ir"
	"winrtgen/metadata"
)

func TestStackPushResolveRelease(t *testing.T) {
	var s Stack

	outer := ir.Frame{ir.ElementExpr{Element: metadata.ElementI32}}
	inner := ir.Frame{ir.ParamExpr{Name: "T"}, ir.ElementExpr{Element: metadata.ElementString}}

	g1 := s.Push(outer)
	if got := s.Resolve(0); got.String() != "i32" {
		t.Fatalf("Resolve(0) = %s, want i32", got)
	}

	g2 := s.Push(inner)
	if s.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", s.Depth())
	}
	// Resolution always reads the innermost frame.
	if got := s.Resolve(1); got.String() != "string" {
		t.Fatalf("Resolve(1) = %s, want string", got)
	}

	g2.Release()
	if got := s.Resolve(0); got.String() != "i32" {
		t.Fatalf("Resolve(0) after release = %s, want i32", got)
	}
	g1.Release()
	if s.Depth() != 0 {
		t.Fatalf("Depth after release = %d, want 0", s.Depth())
	}
}

func TestStackMultiPushGuard(t *testing.T) {
	var s Stack
	chain := []ir.Frame{
		{ir.ElementExpr{Element: metadata.ElementU8}},
		{ir.ElementExpr{Element: metadata.ElementU16}},
	}
	g := s.Push(chain...)
	if s.Depth() != 2 {
		t.Fatalf("Depth = %d, want 2", s.Depth())
	}
	g.Release()
	if s.Depth() != 0 {
		t.Fatalf("Depth = %d, want 0", s.Depth())
	}

	// An empty push is a usable no-op guard.
	g = s.Push()
	g.Release()
	if s.Depth() != 0 {
		t.Fatalf("Depth = %d, want 0", s.Depth())
	}
}

func TestStackResolvePanics(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *Stack)
	}{
		{"empty stack", func(s *Stack) { s.Resolve(0) }},
		{"index out of range", func(s *Stack) {
			s.Push(ir.Frame{ir.ElementExpr{Element: metadata.ElementBool}})
			s.Resolve(1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			var s Stack
			tt.run(&s)
		})
	}
}
