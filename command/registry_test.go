package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/zephyrtronium/saber/command"
)

func nop(context.Context, *command.Robot, *command.Invocation) {}

func TestRegister(t *testing.T) {
	cases := []struct {
		name  string
		specs []command.Spec
		err   error
	}{
		{
			name: "ok",
			specs: []command.Spec{
				{Name: "hype", Aliases: []string{"hypu", "train"}, Fn: nop},
				{Name: "help", Aliases: []string{"h"}, Fn: nop},
			},
		},
		{
			name: "dup-name",
			specs: []command.Spec{
				{Name: "hype", Fn: nop},
				{Name: "hype", Fn: nop},
			},
			err: command.ErrDuplicate,
		},
		{
			name: "alias-shadows-name",
			specs: []command.Spec{
				{Name: "hype", Fn: nop},
				{Name: "help", Aliases: []string{"hype"}, Fn: nop},
			},
			err: command.ErrDuplicate,
		},
		{
			name: "self-alias",
			specs: []command.Spec{
				{Name: "hype", Aliases: []string{"hype"}, Fn: nop},
			},
			err: command.ErrDuplicate,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := command.NewRegistry()
			var err error
			for _, s := range c.specs {
				if err = r.Register(s); err != nil {
					break
				}
			}
			if !errors.Is(err, c.err) {
				t.Errorf("wrong error: want %v, got %v", c.err, err)
			}
		})
	}
}

func TestRegisterInvalid(t *testing.T) {
	r := command.NewRegistry()
	if err := r.Register(command.Spec{Fn: nop}); err == nil {
		t.Errorf("registered command with no name")
	}
	if err := r.Register(command.Spec{Name: "two words", Fn: nop}); err == nil {
		t.Errorf("registered command with space in name")
	}
	if err := r.Register(command.Spec{Name: "hype"}); err == nil {
		t.Errorf("registered command with no function")
	}
	if err := r.Register(command.Spec{Name: "x", Aliases: []string{""}, Fn: nop}); err == nil {
		t.Errorf("registered command with empty alias")
	}
	if err := r.Register(command.Spec{Name: "x", Aliases: []string{"a b"}, Fn: nop}); err == nil {
		t.Errorf("registered command with space in alias")
	}
	if err := r.Register(command.Spec{Name: "x", Aliases: []string{"y", "\tz"}, Fn: nop}); err == nil {
		t.Errorf("registered command with tab in alias")
	}
	if len(r.All()) != 0 {
		t.Errorf("invalid registrations were kept: %v", r.All())
	}
}

func TestLookup(t *testing.T) {
	r := command.NewRegistry()
	if err := r.Register(command.Spec{Name: "hype", Aliases: []string{"hypu", "train"}, Fn: nop}); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		in string
		ok bool
	}{
		{"hype", true},
		{"hypu", true},
		{"train", true},
		{"Hype", false},
		{"hyp", false},
		{"", false},
	}
	for _, c := range cases {
		s, ok := r.Lookup(c.in)
		if ok != c.ok {
			t.Errorf("wrong lookup for %q: want %t, got %t", c.in, c.ok, ok)
		}
		if ok && s.Name != "hype" {
			t.Errorf("%q found wrong command %q", c.in, s.Name)
		}
	}
}

func TestLookupCopies(t *testing.T) {
	r := command.NewRegistry()
	if err := r.Register(command.Spec{Name: "hype", Aliases: []string{"hypu", "train"}, Help: "Choo choo.", Fn: nop}); err != nil {
		t.Fatal(err)
	}
	s, _ := r.Lookup("hype")
	s.Name = "bocchi"
	s.Help = "changed"
	s.Aliases[0] = "changed"
	s.OwnerOnly = true
	got, ok := r.Lookup("hypu")
	if !ok {
		t.Fatal("alias lost after modifying lookup result")
	}
	want := command.Spec{Name: "hype", Aliases: []string{"hypu", "train"}, Help: "Choo choo."}
	if diff := cmp.Diff(want, *got, cmpopts.IgnoreFields(command.Spec{}, "Fn")); diff != "" {
		t.Errorf("registry modified through lookup result (-want +got):\n%s", diff)
	}
	all := r.All()
	all[0].Aliases[1] = "changed"
	if got, _ := r.Lookup("train"); got.Aliases[1] != "train" {
		t.Errorf("registry modified through listing: %v", got.Aliases)
	}
}

func TestDisable(t *testing.T) {
	r := command.NewRegistry()
	if err := r.Register(command.Spec{Name: "hype", Aliases: []string{"train"}, Fn: nop}); err != nil {
		t.Fatal(err)
	}
	if !r.Disable("train") {
		t.Fatalf("couldn't disable by alias")
	}
	if r.Enabled("hype") {
		t.Errorf("hype still enabled")
	}
	if len(r.All()) != 0 {
		t.Errorf("disabled command listed")
	}
	if !r.Enable("hype") {
		t.Fatalf("couldn't enable")
	}
	if !r.Enabled("train") {
		t.Errorf("hype not re-enabled")
	}
	if r.Disable("nothing") {
		t.Errorf("disabled nonexistent command")
	}
}

func TestAllSorted(t *testing.T) {
	r := command.NewRegistry()
	for _, s := range []command.Spec{
		{Name: "hype", Category: "Fun", Fn: nop},
		{Name: "help", Category: "General", Fn: nop},
		{Name: "cache", Category: "Owner", Fn: nop},
		{Name: "boop", Category: "Fun", Fn: nop},
	} {
		if err := r.Register(s); err != nil {
			t.Fatal(err)
		}
	}
	var got []string
	for _, s := range r.All() {
		got = append(got, s.Name)
	}
	want := []string{"boop", "hype", "help", "cache"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong order (-want +got):\n%s", diff)
	}
}
