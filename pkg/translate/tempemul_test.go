package translate

import (
	"strings"
	"testing"

	"github.com/gosqlrender/sqlrender/pkg/dialect"
)

func TestEmulateTempTables_NoopForCanonicalDialect(t *testing.T) {
	got, err := emulateTempTables("SELECT * FROM #t", dialect.SQLServer, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "SELECT * FROM #t" {
		t.Errorf("got %q", got)
	}
}

func TestEmulateTempTables_WithSchema(t *testing.T) {
	got, err := emulateTempTables("SELECT * FROM #t", dialect.Oracle, "myschema", protectStrings("SELECT * FROM #t"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "SELECT * FROM myschema.t_") {
		t.Errorf("got %q", got)
	}
}

func TestEmulateTempTables_NameTooLongErrors(t *testing.T) {
	name := strings.Repeat("n", 23)
	text := "SELECT * FROM #" + name
	_, err := emulateTempTables(text, dialect.Oracle, "", protectStrings(text))
	if err == nil {
		t.Fatal("expected IdentifierTooLongError")
	}
}

func TestEmulateTempTables_LongNameSucceedsForNonOracleDialect(t *testing.T) {
	name := strings.Repeat("n", 40) // over Oracle's 22-char input ceiling, well under BigQuery's 128-char identifier limit
	text := "SELECT * FROM #" + name
	got, err := emulateTempTables(text, dialect.BigQuery, "", protectStrings(text))
	if err != nil {
		t.Fatalf("unexpected error for non-Oracle dialect: %v", err)
	}
	if !strings.Contains(got, name+"_") {
		t.Errorf("expected emulated identifier built from the full name, got %q", got)
	}
}

func TestEmulateTempTables_ProtectedRangeUntouched(t *testing.T) {
	text := "SELECT '#t', * FROM #t"
	got, err := emulateTempTables(text, dialect.Oracle, "", protectStrings(text))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "'#t'") {
		t.Errorf("expected literal #t to survive, got %q", got)
	}
	if strings.Count(got, "#") != 1 {
		t.Errorf("expected exactly one remaining literal '#', got %q", got)
	}
}
