package dataset_test

import (
	"strings"
	"testing"

	"bistro_finder/internal/adapters/dataset"
)

func TestRead_HeaderKeysRows(t *testing.T) {
	in := "name,location,rate\nJalsa,Banashankari,4.1/5\nEmpty Row,,\n"
	rows, err := dataset.Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["name"] != "Jalsa" || rows[0]["rate"] != "4.1/5" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
	if rows[1]["location"] != "" {
		t.Fatalf("blank field should be empty string, got %v", rows[1]["location"])
	}
}

func TestRead_RaggedRows(t *testing.T) {
	in := "name,location\nShort\nLong,Place,Extra\n"
	rows, err := dataset.Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := rows[0]["location"]; ok {
		t.Fatalf("missing field must stay unset")
	}
	if rows[1]["location"] != "Place" {
		t.Fatalf("extra fields should be dropped, row=%v", rows[1])
	}
}

func TestRead_QuotedCommas(t *testing.T) {
	in := "name,cuisines\nJalsa,\"North Indian, Mughlai, Chinese\"\n"
	rows, err := dataset.Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rows[0]["cuisines"] != "North Indian, Mughlai, Chinese" {
		t.Fatalf("unexpected cuisines: %v", rows[0]["cuisines"])
	}
}

func TestRead_EmptyInput(t *testing.T) {
	rows, err := dataset.Read(strings.NewReader(""))
	if err != nil || rows != nil {
		t.Fatalf("empty input: rows=%v err=%v", rows, err)
	}
}
