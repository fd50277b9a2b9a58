// Copyright (c) 2026 Resolveja.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/resolveja/community/models"
	"github.com/resolveja/community/testutil"
)

func getStats(t *testing.T, h *StatsHandler) models.StatsResponse {
	t.Helper()

	req := testutil.MakeRequest("GET", "/stats", nil, nil)
	w := httptest.NewRecorder()
	h.GetStats(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.StatsResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func TestGetStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	h := NewStatsHandler(db, cfg)

	redes := testutil.CreateTestCategory(t, db, "Redes")
	hardware := testutil.CreateTestCategory(t, db, "Hardware")

	q1 := testutil.CreateTestQuestion(t, db, "Wi-Fi caindo toda hora", redes)
	q2 := testutil.CreateTestQuestion(t, db, "Memória RAM com defeito", hardware)
	testutil.CreateTestQuestion(t, db, "Pergunta sem categoria alguma", "")

	testutil.CreateTestAnswer(t, db, q1, "Troque o canal do Wi-Fi.")
	testutil.CreateTestAnswer(t, db, q1, "Atualize o driver da placa.")
	testutil.CreateTestAnswer(t, db, q2, "Rode o memtest durante a noite.")

	if _, err := db.Exec(`UPDATE question SET status = 'resolved' WHERE id = $1`, q2); err != nil {
		t.Fatal(err)
	}

	stats := getStats(t, h)

	if stats.TotalQuestions != 3 {
		t.Errorf("expected 3 questions, got %d", stats.TotalQuestions)
	}
	if stats.TotalAnswers != 3 {
		t.Errorf("expected 3 answers, got %d", stats.TotalAnswers)
	}
	if stats.ResolvedQuestions != 1 {
		t.Errorf("expected 1 resolved question, got %d", stats.ResolvedQuestions)
	}
	// All fixtures were touched just now
	if stats.ActiveToday != 3 {
		t.Errorf("expected 3 active today, got %d", stats.ActiveToday)
	}

	if len(stats.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats.Categories))
	}
	// Ordered by name: Hardware before Redes
	if stats.Categories[0].Name != "Hardware" || stats.Categories[0].TopicCount != 1 || stats.Categories[0].CommentCount != 1 {
		t.Errorf("unexpected Hardware stats: %+v", stats.Categories[0])
	}
	if stats.Categories[1].Name != "Redes" || stats.Categories[1].TopicCount != 1 || stats.Categories[1].CommentCount != 2 {
		t.Errorf("unexpected Redes stats: %+v", stats.Categories[1])
	}
}

func TestGetStats_RecentTopics(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	h := NewStatsHandler(db, cfg)

	q1 := testutil.CreateTestQuestion(t, db, "Primeira pergunta do fórum", "")
	q2 := testutil.CreateTestQuestion(t, db, "Segunda pergunta do fórum", "")
	q3 := testutil.CreateTestQuestion(t, db, "Terceira pergunta do fórum", "")

	// q2 gets the freshest activity, q1 is pinned
	testutil.CreateTestAnswer(t, db, q2, "Uma resposta bem recente.")
	testutil.PinQuestion(t, db, q1)

	stats := getStats(t, h)

	if len(stats.RecentTopics) != 3 {
		t.Fatalf("expected 3 recent topics, got %d", len(stats.RecentTopics))
	}
	if stats.RecentTopics[0].ID != q1 {
		t.Errorf("expected pinned topic first, got %s", stats.RecentTopics[0].ID)
	}
	if stats.RecentTopics[1].ID != q2 {
		t.Errorf("expected freshest topic second, got %s", stats.RecentTopics[1].ID)
	}
	if stats.RecentTopics[2].ID != q3 {
		t.Errorf("expected stale topic last, got %s", stats.RecentTopics[2].ID)
	}
	if stats.RecentTopics[1].AnswerCount != 1 {
		t.Errorf("expected answer count 1, got %d", stats.RecentTopics[1].AnswerCount)
	}
	if stats.RecentTopics[0].LastActivity == "" {
		t.Error("expected humanized last activity")
	}
}

func TestGetStats_CachesSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	h := NewStatsHandler(db, cfg)

	testutil.CreateTestQuestion(t, db, "Pergunta anterior ao cache", "")

	first := getStats(t, h)
	if first.TotalQuestions != 1 {
		t.Fatalf("expected 1 question, got %d", first.TotalQuestions)
	}

	// New rows are invisible until the snapshot expires
	testutil.CreateTestQuestion(t, db, "Pergunta posterior ao cache", "")

	second := getStats(t, h)
	if second.TotalQuestions != 1 {
		t.Errorf("expected cached total 1, got %d", second.TotalQuestions)
	}

	// Expire the snapshot by hand rather than sleeping through the TTL
	h.mu.Lock()
	h.cachedAt = h.cachedAt.Add(-statsCacheTTL)
	h.mu.Unlock()

	third := getStats(t, h)
	if third.TotalQuestions != 2 {
		t.Errorf("expected refreshed total 2, got %d", third.TotalQuestions)
	}
}
