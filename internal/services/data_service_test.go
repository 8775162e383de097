package services

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opotracker/internal/dataset"
	"opotracker/internal/query"
)

const serviceCSV = `DNI,APELLIDOS Y NOMBRE,ADMITIDO/EXCLUIDO,DIA,SEDE,AULA,CONOCIMIENTOS GENERALES,IDIOMA,APTITUD,PERSONALIDAD,TOTAL FASE 1,APTO/NO APTO PROVISIONAL
11111111A,"García López, José",ADMITIDO,12/05,Madrid,A-1,"4,2","2,1","1,5","0,7","8,5",APTO/A
22222222B,"Pérez Ruiz, Ana",ADMITIDO,12/05,Barcelona,B-2,"4,0","2,5","1,2","0,8","9,1",APTO/A
33333333C,"Sanz Gil, Luis",EXCLUIDO,13/05,Madrid,A-2,,,,,---,
44444444D,"Mora Díaz, Eva",ADMITIDO,13/05,Madrid,A-2,"2,0","1,0","0,5","0,5","4,0",NO APTO/A
`

func newLoadedService(t *testing.T) *DataService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(serviceCSV))
	}))
	t.Cleanup(srv.Close)

	store := dataset.NewStore(dataset.NewLoader(srv.URL, 5*time.Second, dataset.DefaultStatusLabels(), nil), nil)
	_, err := store.Reload(context.Background())
	require.NoError(t, err)
	return NewDataService(store, nil)
}

func TestCandidatesDefaultState(t *testing.T) {
	svc := newLoadedService(t)

	got, err := svc.Candidates(context.Background(), query.DefaultState())
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "22222222B", got[0].Identifier)
	assert.Equal(t, 1, got[0].Rank)
}

func TestCandidatesFiltered(t *testing.T) {
	svc := newLoadedService(t)

	state := query.DefaultState()
	state.Site = "Madrid"
	state.Status = "NO APTO/A"
	got, err := svc.Candidates(context.Background(), state)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "44444444D", got[0].Identifier)
}

func TestServiceBeforeLoad(t *testing.T) {
	store := dataset.NewStore(dataset.NewLoader("http://127.0.0.1:0", time.Second, dataset.DefaultStatusLabels(), nil), nil)
	svc := NewDataService(store, nil)

	_, err := svc.Candidates(context.Background(), query.DefaultState())
	assert.ErrorIs(t, err, ErrNoDataset)

	_, err = svc.Summary(context.Background())
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestSitesAndStatuses(t *testing.T) {
	svc := newLoadedService(t)

	sites, err := svc.Sites(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{query.All, "Barcelona", "Madrid"}, sites)

	statuses, err := svc.Statuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{query.All, "APTO/A", "NO APTO/A"}, statuses)
}

func TestSummaryAndGroups(t *testing.T) {
	svc := newLoadedService(t)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Convoked)
	assert.Equal(t, 3, summary.Presented)
	assert.Equal(t, 2, summary.Approved)
	assert.Equal(t, 1, summary.Failed)

	sites, err := svc.SiteStats(context.Background())
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "Madrid", sites[0].Label)
	assert.Equal(t, 3, sites[0].Convoked)

	days, err := svc.DayStats(context.Background())
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "12/05", days[0].Label)
}

func TestExportCSVRoundTrip(t *testing.T) {
	svc := newLoadedService(t)

	state := query.DefaultState()
	state.Site = "Madrid"

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf, state, FormatCSV))

	body := strings.TrimPrefix(buf.String(), "\ufeff")
	n := dataset.NewNormalizer(dataset.DefaultStatusLabels())
	parsed, err := n.Parse(strings.NewReader(body))
	require.NoError(t, err)

	want, err := svc.Candidates(context.Background(), state)
	require.NoError(t, err)
	require.Len(t, parsed, len(want))
	for i := range want {
		assert.Equal(t, want[i].Record(), parsed[i].Record())
	}
}

func TestExportXLSX(t *testing.T) {
	svc := newLoadedService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf, query.DefaultState(), FormatXLSX))
	assert.NotZero(t, buf.Len())
}

func TestExportUnknownFormat(t *testing.T) {
	svc := newLoadedService(t)

	err := svc.Export(context.Background(), &bytes.Buffer{}, query.DefaultState(), "pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestHealthService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("DNI\n1A\n"))
	}))
	defer srv.Close()

	store := dataset.NewStore(dataset.NewLoader(srv.URL, 5*time.Second, dataset.DefaultStatusLabels(), nil), nil)
	health := NewHealthService("test", store)

	assert.False(t, health.Ready(context.Background()))
	assert.Equal(t, "loading", health.Status(context.Background()).Status)

	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	status := health.Status(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, 1, status.Candidates)
	assert.True(t, health.Ready(context.Background()))
}
