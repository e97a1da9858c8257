package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
)

func TestAPICommands(t *testing.T) {
	robo, _ := testRobot(t)
	robo.commands.Disable("about")
	mux := http.NewServeMux()
	robo.routes(mux)
	req := httptest.NewRequest("GET", "/api/commands", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("wrong status: %d", rec.Code)
	}
	var got struct {
		Prefix   string       `json:"prefix"`
		Commands []apiCommand `json:"commands"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Prefix != ">" {
		t.Errorf("wrong prefix %q", got.Prefix)
	}
	var names []string
	for _, c := range got.Commands {
		names = append(names, c.Name)
	}
	want := []string{"hype", "help", "cache"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("wrong commands (-want +got):\n%s", diff)
	}
}

func TestAPISpoken(t *testing.T) {
	ctx := context.Background()
	robo, _ := testRobot(t)
	mux := http.NewServeMux()
	robo.routes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/spoken/chan", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("wrong status with history disabled: %d", rec.Code)
	}

	robo.SetHistory(testDB(t))
	robo.dispatch(ctx, received("user", ">hype"))
	robo.dispatch(ctx, received("user", ">hype"))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/spoken/chan?n=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("wrong status: %d", rec.Code)
	}
	var got struct {
		Messages []struct {
			Channel string `json:"channel"`
			Command string `json:"command"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Command != "hype" || got.Messages[0].Channel != "chan" {
		t.Errorf("wrong messages: %+v", got.Messages)
	}

	for _, n := range []string{"0", "x", "1001"} {
		rec = httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/spoken/chan?n="+n, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("wrong status for n=%s: %d", n, rec.Code)
		}
	}
}
