package receipt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/simulate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Receipt {
	return Receipt{
		Title:   "Tuning Receipt",
		Status:  "OK",
		Point:   "Shadow → judge by Canon → (maybe) adopt style",
		Because: []string{"lane: lane1", `style_old: {"forgiveness":0.1}`},
		But:     "",
		So:      "adopted",
		Metrics: Metrics{
			Law:       simulate.LawMetrics{BudgetOK: true, BendOK: true, Ic: 0.652, AMB: 1, K: 1, Kappa: 0.861, KappaC: 0.9},
			Emergence: simulate.Emergence{V: 0.2588, PhiStar: 0.6631, FalseGreen: 0.021, FlapIndex: 0.14, RecoveryHalflife: 3, ExceptionRate: 0.012, ObjectiveJ: 0.77},
		},
		Policy:  DefaultPolicy(),
		Stamp:   Stamp{IssuedAt: "2026-10-19T08:15:00Z"},
		Verdict: "accepted",
		CycleID: "1a2b3c4d-0000-4000-8000-000000000000",
		Lane:    "lane1",
	}
}

func TestDigestStable(t *testing.T) {
	a, err := Digest(sample())
	require.NoError(t, err)
	b, err := Digest(sample())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestDigestIgnoresStoredDigest(t *testing.T) {
	r := sample()
	before, err := Digest(r)
	require.NoError(t, err)

	r.Stamp.Digest = "something-else"
	after, err := Digest(r)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDigestIndependentOfKeyOrder(t *testing.T) {
	sealed, err := Seal(sample())
	require.NoError(t, err)

	// Round-trip through a generic map and re-encode with a shuffled key order.
	raw, err := json.Marshal(sealed)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))

	var b strings.Builder
	b.WriteString("{")
	keys := []string{"lane", "cycle_id", "verdict", "stamp", "policy", "metrics", "so", "but", "because", "point", "status", "title"}
	for i, k := range keys {
		if i > 0 {
			b.WriteString(",")
		}
		kb, _ := json.Marshal(k)
		vb, err := json.Marshal(generic[k])
		require.NoError(t, err)
		b.Write(kb)
		b.WriteString(":")
		b.Write(vb)
	}
	b.WriteString("}")

	var reordered Receipt
	require.NoError(t, json.Unmarshal([]byte(b.String()), &reordered))

	ok, err := Verify(reordered)
	require.NoError(t, err)
	assert.True(t, ok, "digest should survive key reordering")

	c1, err := Canonical(sealed)
	require.NoError(t, err)
	c2, err := Canonical(reordered)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestDigestChangesOnAnyField(t *testing.T) {
	base, err := Digest(sample())
	require.NoError(t, err)

	mutations := map[string]func(r *Receipt){
		"title":     func(r *Receipt) { r.Title = "Other" },
		"status":    func(r *Receipt) { r.Status = "ERROR" },
		"because":   func(r *Receipt) { r.Because = append(r.Because, "extra") },
		"but":       func(r *Receipt) { r.But = "flap high" },
		"so":        func(r *Receipt) { r.So = "rejected" },
		"ic":        func(r *Receipt) { r.Metrics.Law.Ic = 0.653 },
		"halflife":  func(r *Receipt) { r.Metrics.Emergence.RecoveryHalflife = 4 },
		"policy":    func(r *Receipt) { r.Policy.Train = "no" },
		"issued_at": func(r *Receipt) { r.Stamp.IssuedAt = "2026-10-19T08:15:01Z" },
		"verdict":   func(r *Receipt) { r.Verdict = "rejected" },
		"lane":      func(r *Receipt) { r.Lane = "lane2" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			r := sample()
			mutate(&r)
			d, err := Digest(r)
			require.NoError(t, err)
			assert.NotEqual(t, base, d)
		})
	}
}

func TestSealAndVerify(t *testing.T) {
	r, err := Seal(sample())
	require.NoError(t, err)
	require.NotEmpty(t, r.Stamp.Digest)

	ok, err := Verify(r)
	require.NoError(t, err)
	assert.True(t, ok)

	r.So = "rejected"
	ok, err = Verify(r)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSlotName(t *testing.T) {
	issued := time.Date(2026, 10, 19, 8, 15, 0, 0, time.UTC)
	assert.Equal(t, "tuning-20261019T081500Z-1a2b3c4d.json", SlotName(issued, "1a2b3c4d-0000"))
	assert.Equal(t, "tuning-20261019T081500Z-abc.json", SlotName(issued, "abc"))
}

func TestFileSinkWritesSlotLatestAndCanon(t *testing.T) {
	dir := t.TempDir()
	sink := FileSink{
		Dir:        filepath.Join(dir, "docs", "receipts"),
		LatestPath: filepath.Join(dir, "docs", "receipt.latest.json"),
	}
	r, err := Seal(sample())
	require.NoError(t, err)

	written, err := sink.Write(r, []byte(`{"budget":{"k":1}}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sink.Dir, "tuning-20261019T081500Z-1a2b3c4d.json"), written.Slot)
	assert.Equal(t, sink.LatestPath, written.Latest)

	slot, err := ReadFile(written.Slot)
	require.NoError(t, err)
	latest, err := ReadFile(written.Latest)
	require.NoError(t, err)
	assert.Equal(t, r, slot)
	assert.Equal(t, slot, latest)

	ok, err := Verify(latest)
	require.NoError(t, err)
	assert.True(t, ok)

	canon, err := os.ReadFile(written.Canon)
	require.NoError(t, err)
	assert.JSONEq(t, `{"budget":{"k":1}}`, string(canon))
}

func TestFileSinkOverwritesLatest(t *testing.T) {
	dir := t.TempDir()
	sink := FileSink{Dir: dir, LatestPath: filepath.Join(dir, "latest.json")}

	first, err := Seal(sample())
	require.NoError(t, err)
	_, err = sink.Write(first, nil)
	require.NoError(t, err)

	second := sample()
	second.CycleID = "ffffffff-0000"
	second.So = "rejected"
	second, err = Seal(second)
	require.NoError(t, err)
	written, err := sink.Write(second, nil)
	require.NoError(t, err)
	assert.Empty(t, written.Canon)

	latest, err := ReadFile(sink.LatestPath)
	require.NoError(t, err)
	assert.Equal(t, "rejected", latest.So)

	entries, err := filepath.Glob(filepath.Join(dir, "tuning-*.json"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFileSinkUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	sink := FileSink{Dir: filepath.Join(blocker, "receipts")}
	_, err := sink.Write(sample(), nil)
	assert.Error(t, err)
}

func TestReadDirSkipsLatestAndCanon(t *testing.T) {
	dir := t.TempDir()
	sink := FileSink{Dir: dir, LatestPath: filepath.Join(dir, "receipt.latest.json")}

	first, err := Seal(sample())
	require.NoError(t, err)
	_, err = sink.Write(first, []byte(`{}`))
	require.NoError(t, err)

	second := sample()
	second.CycleID = "ffffffff-0000"
	second.Stamp.IssuedAt = "2026-10-19T08:16:00Z"
	second, err = Seal(second)
	require.NoError(t, err)
	_, err = sink.Write(second, nil)
	require.NoError(t, err)

	got, err := ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.CycleID, got[0].CycleID)
	assert.Equal(t, second.CycleID, got[1].CycleID)

	none, err := ReadDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, none)
}
