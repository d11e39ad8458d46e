package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "match_number").
		From("matches").
		Where(Eq("season_id", "s1"), Eq("status", "scheduled")).
		OrderBy("match_number").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, match_number FROM matches WHERE season_id = $1 AND status = $2 ORDER BY match_number LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "s1" || args[1] != "scheduled" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	query, args, err := InsertInto("matches").
		Columns("id", "season_id").
		Values("m1", "s1").
		Values("m2", "s1").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO matches (id, season_id) VALUES ($1, $2), ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "m2" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder_VersionGuard(t *testing.T) {
	query, args, err := Update("match_lineups").
		Set("locked", true).
		SetExpr("version", "version + 1").
		Where(Eq("id", "l1"), Eq("version", int64(3))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE match_lineups SET locked = $1, version = version + 1 WHERE id = $2 AND version = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != true || args[1] != "l1" || args[2] != int64(3) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("matches").
		Where(Eq("season_id", "s1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM matches WHERE season_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "s1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("matches").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditional delete")
	}
}
