package translate

import (
	"strings"
	"testing"

	"github.com/gosqlrender/sqlrender/pkg/dialect"
)

func TestExpandHints_DistributeOnKey(t *testing.T) {
	sql := "--HINT DISTRIBUTE_ON_KEY(person_id)\nCREATE TABLE t (person_id INT)"
	got := expandHints(sql, dialect.Redshift)
	if !strings.Contains(got, "WITH (DISTRIBUTION = HASH(person_id))") {
		t.Errorf("got %q", got)
	}
}

func TestExpandHints_LeavesHintLineIntact(t *testing.T) {
	sql := "--HINT DISTRIBUTE_ON_KEY(x)\nCREATE TABLE t (x INT)"
	got := expandHints(sql, dialect.PDW)
	if !strings.HasPrefix(got, "--HINT DISTRIBUTE_ON_KEY(x)") {
		t.Errorf("expected hint line preserved verbatim, got %q", got)
	}
}

func TestExpandHints_UnsupportedDialectIsNoop(t *testing.T) {
	sql := "--HINT DISTRIBUTE_ON_KEY(x)\nCREATE TABLE t (x INT)"
	got := expandHints(sql, dialect.Oracle)
	if got != sql {
		t.Errorf("expected no-op for a dialect without MPP hint support, got %q", got)
	}
}

func TestExpandHints_InterveningStatementBreaksAdjacency(t *testing.T) {
	sql := "--HINT DISTRIBUTE_ON_KEY(x)\nSELECT 1\nCREATE TABLE t (x INT)"
	got := expandHints(sql, dialect.PDW)
	if strings.Contains(got, "DISTRIBUTION") {
		t.Errorf("hint should not apply across intervening statement content, got %q", got)
	}
}

func TestExpandHints_NoHintIsNoop(t *testing.T) {
	sql := "CREATE TABLE t (x INT)"
	got := expandHints(sql, dialect.PDW)
	if got != sql {
		t.Errorf("got %q", got)
	}
}
