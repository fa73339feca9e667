package translate

import (
	"strings"
	"testing"

	"github.com/gosqlrender/sqlrender/pkg/dialect"
)

const testCSV = `source_dialect,target_dialect,pattern_search,pattern_replace
sql server,oracle,GETDATE(),SYSDATE
sql server,mysql,GETDATE(),NOW()
`

func TestLoadTable_SkipsUnknownTargetDialect(t *testing.T) {
	res, err := LoadTable(strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("LoadTable error: %v", err)
	}
	if res.RulesLoaded != 1 {
		t.Errorf("RulesLoaded = %d, want 1", res.RulesLoaded)
	}
	if res.RowsSkipped != 1 {
		t.Errorf("RowsSkipped = %d, want 1 (mysql is not a recognized target)", res.RowsSkipped)
	}
	rules := res.Table.Rules(dialect.Oracle)
	if len(rules) != 1 {
		t.Fatalf("got %d oracle rules, want 1", len(rules))
	}
}

func TestLoadTable_UnknownSourceDialectErrors(t *testing.T) {
	csv := "source_dialect,target_dialect,pattern_search,pattern_replace\nmysql,oracle,GETDATE(),SYSDATE\n"
	if _, err := LoadTable(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for unknown source_dialect")
	}
}

func TestLoadTable_BadHeaderErrors(t *testing.T) {
	csv := "a,b,c,d\nsql server,oracle,X,Y\n"
	if _, err := LoadTable(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for bad header")
	}
}

func TestLoadTable_EmptyInputErrors(t *testing.T) {
	if _, err := LoadTable(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty pattern table")
	}
}

func TestLoadTable_MalformedPatternErrors(t *testing.T) {
	csv := "source_dialect,target_dialect,pattern_search,pattern_replace\nsql server,oracle,LEN(@@@a),LENGTH(@@@x)\n"
	if _, err := LoadTable(strings.NewReader(csv)); err == nil {
		t.Fatal("expected RuleLoadError for undeclared capture reference")
	}
}

func TestDefaultTable_LoadsEmbeddedResource(t *testing.T) {
	table, err := DefaultTable()
	if err != nil {
		t.Fatalf("DefaultTable error: %v", err)
	}
	if len(table.Rules(dialect.Oracle)) == 0 {
		t.Error("expected the embedded default table to carry oracle rules")
	}
	if len(table.Rules(dialect.SQLServer)) != 0 {
		t.Error("canonical dialect should never appear as a rule target")
	}
}
