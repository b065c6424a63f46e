package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/FleetShift/internal/hermes"
)

func TestDatasetInfo_RequiresToken(t *testing.T) {
	env := setupTestRouter(t, true, false)

	w := env.do("GET", "/api/v1/admin/dataset", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = env.do("GET", "/api/v1/admin/dataset", "", "Authorization", "Bearer test-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var info DatasetInfo
	decode(t, w, &info)
	if info.Operators != 16 || info.Scenarios != 2 || info.TariffBands != 1 {
		t.Errorf("unexpected dataset info: %+v", info)
	}
	if info.Source != "stub" {
		t.Errorf("expected source stub, got %s", info.Source)
	}
}

func TestReload_SwapsSnapshotAndPublishes(t *testing.T) {
	env := setupTestRouter(t, true, false)
	before, _ := env.repo.Current()

	w := env.do("POST", "/api/v1/admin/dataset/reload", "", "Authorization", "Bearer test-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var info DatasetInfo
	decode(t, w, &info)
	if info.SnapshotID == before.ID {
		t.Error("expected a new snapshot id after reload")
	}

	subjects := env.hermes.subjects()
	if len(subjects) != 1 || subjects[0] != hermes.SubjectDatasetReloaded(info.SnapshotID.String()) {
		t.Errorf("expected reloaded event, got %v", subjects)
	}
	ev, ok := env.hermes.events[0].data.(hermes.DatasetReloadedEvent)
	if !ok {
		t.Fatalf("expected DatasetReloadedEvent, got %T", env.hermes.events[0].data)
	}
	if ev.PreviousID != before.ID.String() || ev.TriggeredBy != "admin" {
		t.Errorf("unexpected event payload: %+v", ev)
	}
}

func TestReload_FailureKeepsPreviousSnapshot(t *testing.T) {
	env := setupTestRouter(t, true, false)
	before, _ := env.repo.Current()
	env.source.setFail(true)

	w := env.do("POST", "/api/v1/admin/dataset/reload", "", "Authorization", "Bearer test-token")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
	}

	after, err := env.repo.Current()
	if err != nil || after.ID != before.ID {
		t.Errorf("previous snapshot should keep serving, got %v / %v", after, err)
	}
	if w := env.do("GET", "/api/v1/operators", ""); w.Code != http.StatusOK {
		t.Errorf("reads should still succeed after a failed reload, got %d", w.Code)
	}

	subjects := env.hermes.subjects()
	if len(subjects) != 1 || subjects[0] != hermes.SubjectDatasetReloadFailed {
		t.Errorf("expected reload-failed event, got %v", subjects)
	}
}

func TestReloader_HandleRequest(t *testing.T) {
	env := setupTestRouter(t, true, false)
	before, _ := env.repo.Current()

	rl := NewReloader(env.repo, env.hermes, discardLogger())
	rl.HandleRequest(hermes.SubjectDatasetReloadRequest, []byte(`{"requested_by":"pipeline"}`))

	after, _ := env.repo.Current()
	if after.ID == before.ID {
		t.Error("expected reload from hermes request")
	}
	ev := env.hermes.events[len(env.hermes.events)-1].data.(hermes.DatasetReloadedEvent)
	if ev.TriggeredBy != "pipeline" {
		t.Errorf("expected triggered_by pipeline, got %s", ev.TriggeredBy)
	}

	rl.HandleRequest(hermes.SubjectDatasetReloadRequest, []byte(`not json`))
	latest, _ := env.repo.Current()
	if latest.ID != after.ID {
		t.Error("malformed request must not trigger a reload")
	}
}

func TestReloader_WithoutHermes(t *testing.T) {
	env := setupTestRouter(t, true, false)
	rl := NewReloader(env.repo, nil, discardLogger())
	snap, err := rl.Reload(context.Background(), "test")
	if err != nil || snap == nil {
		t.Fatalf("reload without hermes should succeed: %v", err)
	}
	if !strings.HasPrefix(snap.Source, "stub") {
		t.Errorf("unexpected source %s", snap.Source)
	}
}
