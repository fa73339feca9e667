package render

import "testing"

func TestRender_PlainSQLIsIdentity(t *testing.T) {
	tests := []string{
		"SELECT * FROM my_table",
		"SELECT 1, 2, 3 FROM dual WHERE x = 1",
		"-- a comment\nSELECT 1",
	}
	for _, sql := range tests {
		got, err := Render(sql, nil)
		if err != nil {
			t.Fatalf("Render(%q) error: %v", sql, err)
		}
		if got != sql {
			t.Errorf("Render(%q) = %q, want identity", sql, got)
		}
	}
}

func TestRender_ParamSubstitution(t *testing.T) {
	bindings := map[string]Value{
		"x": StringValue("my_table"),
		"a": IntValue(123),
	}
	got, err := Render("SELECT * FROM @x WHERE id=@a", bindings)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := "SELECT * FROM my_table WHERE id=123"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_SequenceBinding(t *testing.T) {
	bindings := map[string]Value{
		"a": SeqValue([]Value{IntValue(1), IntValue(2), IntValue(3)}),
	}
	got, err := Render("SELECT * FROM table WHERE id IN (@a)", bindings)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := "SELECT * FROM table WHERE id IN (1,2,3)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_SequenceOfStringsQuoted(t *testing.T) {
	bindings := map[string]Value{
		"names": SeqValue([]Value{StringValue("a"), StringValue("b")}),
	}
	got, err := Render("WHERE name IN (@names)", bindings)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := "WHERE name IN ('a','b')"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_DefaultDeclaration(t *testing.T) {
	got, err := Render("{DEFAULT @a=1} SELECT @a", nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := " SELECT 1"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_DefaultOverriddenByBinding(t *testing.T) {
	got, err := Render("{DEFAULT @a=1} SELECT @a", map[string]Value{"a": IntValue(42)})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := " SELECT 42"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_LastDefaultWins(t *testing.T) {
	got, err := Render("{DEFAULT @a=1}{DEFAULT @a=2} SELECT @a", nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := " SELECT 2"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_ConditionalBlock(t *testing.T) {
	got, err := Render("SELECT * FROM t {@x IN (1,2,3)} ? {WHERE id=@x}", map[string]Value{"x": IntValue(2)})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := "SELECT * FROM t WHERE id=2"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_ConditionalElseBranch(t *testing.T) {
	tmpl := "SELECT {@active} ? {'yes'} : {'no'}"
	got, err := Render(tmpl, map[string]Value{"active": BoolValue(false)})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != "SELECT 'no'" {
		t.Errorf("got %q", got)
	}

	got, err = Render(tmpl, map[string]Value{"active": BoolValue(true)})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != "SELECT 'yes'" {
		t.Errorf("got %q", got)
	}
}

func TestRender_UnboundParamIsEmptyNotError(t *testing.T) {
	got, err := Render("SELECT @missing", nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if got != "SELECT " {
		t.Errorf("got %q", got)
	}
}

func TestRender_StringLiteralProtectsMarkup(t *testing.T) {
	got, err := Render("SELECT '@notaparam {not a cond}' FROM t", nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := "SELECT '@notaparam {not a cond}' FROM t"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_AmbiguousBraceIsLiteral(t *testing.T) {
	got, err := Render("SELECT * FROM t WHERE x IN {1,2,3}", nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := "SELECT * FROM t WHERE x IN {1,2,3}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_UnterminatedConditionalErrors(t *testing.T) {
	_, err := Render("SELECT {@x", nil)
	if err == nil {
		t.Fatal("expected error for unterminated brace")
	}
}

func TestRender_NestedConditionals(t *testing.T) {
	tmpl := "{@a} ? { {@b} ? {AB} : {A} } : {NONE}"
	got, err := Render(tmpl, map[string]Value{"a": BoolValue(true), "b": BoolValue(true)})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := " AB "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
