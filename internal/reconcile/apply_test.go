package reconcile

import (
	"reflect"
	"testing"
)

type entity struct {
	ID   string
	Name string
}

func entityID(e entity) string { return e.ID }

func TestApplyAddedAppends(t *testing.T) {
	list := Apply(nil, Event[entity]{Type: EventAdded, ID: "a", Value: entity{"a", "Carrots"}}, entityID)

	want := []entity{{"a", "Carrots"}}
	if !reflect.DeepEqual(list, want) {
		t.Fatalf("expected %v, got %v", want, list)
	}
}

func TestApplyAddedIsIdempotent(t *testing.T) {
	ev := Event[entity]{Type: EventAdded, ID: "a", Value: entity{"a", "Carrots"}}

	once := Apply(nil, ev, entityID)
	twice := Apply(once, ev, entityID)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected re-added list %v to equal %v", twice, once)
	}
}

func TestApplyAddedReplacesInPlace(t *testing.T) {
	list := []entity{{"a", "Carrots"}, {"b", "Leeks"}}

	out := Apply(list, Event[entity]{Type: EventAdded, ID: "a", Value: entity{"a", "Carrots XL"}}, entityID)

	want := []entity{{"a", "Carrots XL"}, {"b", "Leeks"}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("expected position preserved, got %v", out)
	}
}

func TestApplyChangedReplacesExisting(t *testing.T) {
	list := []entity{{"a", "Carrots"}}

	out := Apply(list, Event[entity]{Type: EventChanged, ID: "a", Value: entity{"a", "Carrots XL"}}, entityID)

	want := []entity{{"a", "Carrots XL"}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
}

func TestApplyChangedBeforeAddedFallsBackToAppend(t *testing.T) {
	out := Apply(nil, Event[entity]{Type: EventChanged, ID: "5", Value: entity{"5", "v1"}}, entityID)

	want := []entity{{"5", "v1"}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("expected changed-before-added to append, got %v", out)
	}
}

func TestApplyRemovedDeletesAllMatches(t *testing.T) {
	list := []entity{{"a", "Carrots"}, {"b", "Leeks"}, {"a", "Carrots dup"}}

	out := Apply(list, Event[entity]{Type: EventRemoved, ID: "a"}, entityID)

	want := []entity{{"b", "Leeks"}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
}

func TestApplyRemovedUnknownIsNoOp(t *testing.T) {
	list := []entity{{"a", "Carrots"}}

	out := Apply(list, Event[entity]{Type: EventRemoved, ID: "zz"}, entityID)

	if !reflect.DeepEqual(out, list) {
		t.Fatalf("expected content unchanged, got %v", out)
	}
}

func TestApplyMovedIsNoOp(t *testing.T) {
	list := []entity{{"a", "Carrots"}, {"b", "Leeks"}}

	out := Apply(list, Event[entity]{Type: EventMoved, ID: "b"}, entityID)

	if !reflect.DeepEqual(out, list) {
		t.Fatalf("expected ordering untouched, got %v", out)
	}
}

func TestApplyNeverMutatesInput(t *testing.T) {
	list := []entity{{"a", "Carrots"}}

	_ = Apply(list, Event[entity]{Type: EventChanged, ID: "a", Value: entity{"a", "Carrots XL"}}, entityID)
	_ = Apply(list, Event[entity]{Type: EventRemoved, ID: "a"}, entityID)

	if list[0].Name != "Carrots" {
		t.Fatalf("input list mutated: %v", list)
	}
}

func TestApplyLifecycleScenario(t *testing.T) {
	var list []entity

	list = Apply(list, Event[entity]{Type: EventAdded, ID: "A", Value: entity{"A", "Carrots"}}, entityID)
	list = Apply(list, Event[entity]{Type: EventChanged, ID: "A", Value: entity{"A", "Carrots XL"}}, entityID)

	want := []entity{{"A", "Carrots XL"}}
	if !reflect.DeepEqual(list, want) {
		t.Fatalf("expected intermediate state %v, got %v", want, list)
	}

	list = Apply(list, Event[entity]{Type: EventRemoved, ID: "A"}, entityID)
	if len(list) != 0 {
		t.Fatalf("expected empty final list, got %v", list)
	}
}
