package dom

import "testing"

func TestAppendChild(t *testing.T) {
	parent := NewNode("div")
	a := NewNode("span")
	b := NewNode("span")

	parent.AppendChild(a)
	parent.AppendChild(b)

	if len(parent.Children()) != 2 {
		t.Fatalf("expected 2 children, got %d", len(parent.Children()))
	}
	if a.Parent() != parent || b.Parent() != parent {
		t.Error("expected children to point back at parent")
	}
}

func TestAppendChild_Reparents(t *testing.T) {
	first := NewNode("div")
	second := NewNode("div")
	child := NewNode("span")

	first.AppendChild(child)
	second.AppendChild(child)

	if len(first.Children()) != 0 {
		t.Errorf("expected old parent to lose the child, still has %d", len(first.Children()))
	}
	if child.Parent() != second {
		t.Error("expected child to belong to the new parent")
	}
}

func TestInsertBefore(t *testing.T) {
	parent := NewNode("div")
	a := NewNode("a")
	c := NewNode("c")
	parent.AppendChild(a)
	parent.AppendChild(c)

	b := NewNode("b")
	parent.InsertBefore(b, c)

	got := parent.Children()
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Errorf("unexpected order after InsertBefore: %v", got)
	}

	t.Run("nil ref appends", func(t *testing.T) {
		d := NewNode("d")
		parent.InsertBefore(d, nil)
		kids := parent.Children()
		if kids[len(kids)-1] != d {
			t.Error("expected nil refChild to append at the end")
		}
	})

	t.Run("unknown ref appends", func(t *testing.T) {
		e := NewNode("e")
		parent.InsertBefore(e, NewNode("stranger"))
		kids := parent.Children()
		if kids[len(kids)-1] != e {
			t.Error("expected unknown refChild to append at the end")
		}
	})
}

func TestRemoveChild(t *testing.T) {
	parent := NewNode("div")
	child := NewNode("span")
	parent.AppendChild(child)

	if removed := parent.RemoveChild(child); removed != child {
		t.Fatalf("expected removed child back, got %v", removed)
	}
	if child.Parent() != nil {
		t.Error("expected removed child to have no parent")
	}
	if removed := parent.RemoveChild(NewNode("other")); removed != nil {
		t.Errorf("expected nil for unknown child, got %v", removed)
	}
}

func TestBoundingClientRect(t *testing.T) {
	n := NewNode("div")
	if got := n.BoundingClientRect(); got != (Rect{}) {
		t.Errorf("expected zero rect before measurement, got %+v", got)
	}

	n.SetBoundingClientRect(Rect{X: 10, Y: 20, Width: 100, Height: 40})
	r := n.BoundingClientRect()
	if r.Right() != 110 || r.Bottom() != 60 {
		t.Errorf("unexpected edges: right=%v bottom=%v", r.Right(), r.Bottom())
	}
}

func TestStyleMerged(t *testing.T) {
	base := Style{"position": "absolute", "top": 0}
	over := Style{"top": 12, "left": 5}

	merged := base.Merged(over)

	if merged["top"] != 12 || merged["left"] != 5 || merged["position"] != "absolute" {
		t.Errorf("unexpected merge result: %v", merged)
	}
	if base["top"] != 0 {
		t.Error("expected base style to be untouched")
	}
}

func TestAssignRef(t *testing.T) {
	n := NewNode("div")

	t.Run("nil sink", func(t *testing.T) {
		AssignRef(nil, n)
	})

	t.Run("cell sink", func(t *testing.T) {
		ref := &NodeRef{}
		AssignRef(ref, n)
		if ref.Current != n {
			t.Error("expected cell to hold the node")
		}
		AssignRef(ref, nil)
		if ref.Current != nil {
			t.Error("expected cell to clear on nil")
		}
	})

	t.Run("func sink", func(t *testing.T) {
		var got *Node
		AssignRef(NodeSinkFunc(func(n *Node) { got = n }), n)
		if got != n {
			t.Error("expected func sink to receive the node")
		}
	})
}
