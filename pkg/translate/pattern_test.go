package translate

import (
	"testing"

	"github.com/gosqlrender/sqlrender/pkg/dialect"
)

func TestCompileRule_SimpleLiteralSubstitution(t *testing.T) {
	r := Rule{SourceDialect: dialect.SQLServer, TargetDialect: dialect.Oracle,
		PatternSearch: "GETDATE()", PatternReplace: "SYSDATE"}
	c, err := compileRule(r)
	if err != nil {
		t.Fatalf("compileRule error: %v", err)
	}
	got := c.apply("SELECT GETDATE() FROM dual", nil)
	if got != "SELECT SYSDATE FROM dual" {
		t.Errorf("got %q", got)
	}
}

func TestCompileRule_CaseInsensitiveLiteral(t *testing.T) {
	r := Rule{PatternSearch: "getdate()", PatternReplace: "SYSDATE"}
	c, err := compileRule(r)
	if err != nil {
		t.Fatalf("compileRule error: %v", err)
	}
	got := c.apply("SELECT GetDate() FROM dual", nil)
	if got != "SELECT SYSDATE FROM dual" {
		t.Errorf("got %q", got)
	}
}

func TestCompileRule_NamedCaptures(t *testing.T) {
	r := Rule{PatternSearch: "ISNULL(@@@a,@@@b)", PatternReplace: "COALESCE(@@@a,@@@b)"}
	c, err := compileRule(r)
	if err != nil {
		t.Fatalf("compileRule error: %v", err)
	}
	got := c.apply("WHERE x = ISNULL(col1,col2)", nil)
	if got != "WHERE x = COALESCE(col1,col2)" {
		t.Errorf("got %q", got)
	}
}

func TestCompileRule_CapturePreservesOriginalCasing(t *testing.T) {
	r := Rule{PatternSearch: "LEN(@@@a)", PatternReplace: "LENGTH(@@@a)"}
	c, err := compileRule(r)
	if err != nil {
		t.Fatalf("compileRule error: %v", err)
	}
	got := c.apply("LEN(MyColumn)", nil)
	if got != "LENGTH(MyColumn)" {
		t.Errorf("got %q, want captured casing preserved", got)
	}
}

func TestCompileRule_AdvancesPastSubstitutionOnSelfReferentialReplacement(t *testing.T) {
	// A pathological rule whose replacement text contains its own search
	// pattern must not loop: the matcher advances past the substitution.
	r := Rule{PatternSearch: "FOO", PatternReplace: "FOOFOO"}
	c, err := compileRule(r)
	if err != nil {
		t.Fatalf("compileRule error: %v", err)
	}
	got := c.apply("FOO BAR", nil)
	if got != "FOOFOO BAR" {
		t.Errorf("got %q", got)
	}
}

func TestCompileRule_UndeclaredCaptureInReplaceErrors(t *testing.T) {
	r := Rule{PatternSearch: "LEN(@@@a)", PatternReplace: "LENGTH(@@@b)"}
	if _, err := compileRule(r); err == nil {
		t.Fatal("expected RuleLoadError for undeclared capture reference")
	}
}

func TestCompileRule_DuplicateCaptureNameErrors(t *testing.T) {
	r := Rule{PatternSearch: "F(@@@a,@@@a)", PatternReplace: "G(@@@a)"}
	if _, err := compileRule(r); err == nil {
		t.Fatal("expected RuleLoadError for duplicate capture declaration")
	}
}

func TestCompileRule_RespectsProtectedRanges(t *testing.T) {
	r := Rule{PatternSearch: "FOO", PatternReplace: "BAR"}
	c, err := compileRule(r)
	if err != nil {
		t.Fatalf("compileRule error: %v", err)
	}
	text := "SELECT 'FOO' , FOO"
	protected := protectStrings(text)
	got := c.apply(text, protected)
	if got != "SELECT 'FOO' , BAR" {
		t.Errorf("got %q", got)
	}
}

func TestCompileRule_QuotedPatternMatchesInsideLiterals(t *testing.T) {
	r := Rule{PatternSearch: "'FOO'", PatternReplace: "'BAR'"}
	c, err := compileRule(r)
	if err != nil {
		t.Fatalf("compileRule error: %v", err)
	}
	text := "SELECT 'FOO'"
	protected := protectStrings(text)
	got := c.apply(text, protected)
	if got != "SELECT 'BAR'" {
		t.Errorf("got %q", got)
	}
}
