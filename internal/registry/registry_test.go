package registry

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/blockfall/internal/core"
)

type stubGame struct{ id string }

func (g *stubGame) ID() string                       { return g.id }
func (g *stubGame) Title() string                    { return strings.ToUpper(g.id) }
func (g *stubGame) Description() string              { return "stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig)         {}
func (g *stubGame) Step(core.Action) core.StepResult { return core.StepResult{} }
func (g *stubGame) Render(*core.Screen)              {}
func (g *stubGame) State() core.GameState            { return core.GameState{} }
func (g *stubGame) PollInterval() time.Duration      { return 10 * time.Millisecond }

func TestRegisterCreateList(t *testing.T) {
	ids := []string{"zz_stub_b", "zz_stub_a"}
	for _, id := range ids {
		id := id
		Register(id, func() Game { return &stubGame{id: id} })
		defer unregister(id)
	}

	if !Exists("zz_stub_a") {
		t.Errorf("Exists(zz_stub_a) = false, expected true")
	}
	if Exists("zz_missing") {
		t.Errorf("Exists(zz_missing) = true, expected false")
	}

	g, err := Create("zz_stub_a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.ID() != "zz_stub_a" {
		t.Errorf("Create().ID() = %q, expected %q", g.ID(), "zz_stub_a")
	}

	if _, err := Create("zz_missing"); err == nil {
		t.Errorf("Create(zz_missing) expected error")
	}

	var got []GameInfo
	for _, info := range List() {
		if strings.HasPrefix(info.ID, "zz_stub_") {
			got = append(got, info)
		}
	}
	if len(got) != 2 || got[0].ID != "zz_stub_a" || got[1].ID != "zz_stub_b" {
		t.Fatalf("List() = %+v, expected zz_stub_a then zz_stub_b", got)
	}
	if got[0].Title != "ZZ_STUB_A" || got[0].Description != "stub zz_stub_a" {
		t.Errorf("List()[0] = %+v, unexpected metadata", got[0])
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz_dup", func() Game { return &stubGame{id: "zz_dup"} })
	defer unregister("zz_dup")

	defer func() {
		if recover() == nil {
			t.Errorf("Register() duplicate expected panic")
		}
	}()
	Register("zz_dup", func() Game { return &stubGame{id: "zz_dup"} })
}
