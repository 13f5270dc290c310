package httpapi_test

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport_ReturnsWorkbook(t *testing.T) {
	_, srv := rfidFixture(t)

	rec := get(t, srv.Router(), "/api/enriched_events/export")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "rfid_events_")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("rfid")
	require.NoError(t, err)
	require.Len(t, rows, 4, "header plus one row per event")
	require.Equal(t, []string{"tag_rfid", "categoria", "tipo", "operatore", "rack", "magazzino", "data"}, rows[0])
	require.Equal(t, "Inserimento", rows[1][2])
}

func TestExport_BadDateIsRejected(t *testing.T) {
	up, srv := rfidFixture(t)

	rec := get(t, srv.Router(), "/api/enriched_events/export?date=not-a-date")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, up.hitCount())
}

func TestExport_DateFilterApplies(t *testing.T) {
	_, srv := rfidFixture(t)

	rec := get(t, srv.Router(), "/api/enriched_events/export?date=1999-01-01")
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("rfid")
	require.NoError(t, err)
	require.Len(t, rows, 1, "only the header when nothing matches")
}
