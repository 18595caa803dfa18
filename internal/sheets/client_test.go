package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/mazta/kpi-dashboard/internal"
)

func newTestClient(server *httptest.Server) *Client {
	return NewClient(internal.SheetsConfig{
		BaseURL:        server.URL,
		SpreadsheetID:  "sheet-id",
		APIKey:         "test-key",
		RequestTimeout: 2 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

var _ = ginkgo.Describe("Client", func() {
	ginkgo.Describe("Values", func() {
		ginkgo.It("should fetch and decode a range", func() {
			var gotPath, gotKey string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotKey = r.URL.Query().Get("key")
				json.NewEncoder(w).Encode(map[string]interface{}{
					"range":  "Users!A1:C2",
					"values": [][]string{{"Email", "Password"}, {"a@b.c", "pw"}},
				})
			}))
			defer server.Close()

			values, err := newTestClient(server).Values(context.Background(), "Users")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(values).To(gomega.HaveLen(2))
			gomega.Expect(gotPath).To(gomega.Equal("/sheet-id/values/Users"))
			gomega.Expect(gotKey).To(gomega.Equal("test-key"))
		})

		ginkgo.It("should surface a non-200 response as an error", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))
			defer server.Close()

			_, err := newTestClient(server).Values(context.Background(), "Users")

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("403"))
		})
	})

	ginkgo.Describe("Records", func() {
		ginkgo.It("should flatten the values into canonical records", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"values": [][]string{{"Divisi", "Nilai KPI"}, {"Finance", "80,5"}},
				})
			}))
			defer server.Close()

			records, err := newTestClient(server).Records(context.Background(), "Kpi_personal")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(records).To(gomega.HaveLen(1))
			gomega.Expect(records[0].Department()).To(gomega.Equal("Finance"))
			gomega.Expect(records[0].Num("Nilai KPI")).To(gomega.Equal(80.5))
		})
	})

	ginkgo.Describe("Append", func() {
		ginkgo.It("should post the row to the append verb with insert options", func() {
			var gotPath, gotInput, gotInsert string
			var gotBody map[string][][]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotInput = r.URL.Query().Get("valueInputOption")
				gotInsert = r.URL.Query().Get("insertDataOption")
				json.NewDecoder(r.Body).Decode(&gotBody)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			err := newTestClient(server).Append(context.Background(), "Komentar!A:F", []string{"row-1", "Finance"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(gotPath).To(gomega.ContainSubstring(":append"))
			gomega.Expect(gotInput).To(gomega.Equal("USER_ENTERED"))
			gomega.Expect(gotInsert).To(gomega.Equal("INSERT_ROWS"))
			gomega.Expect(gotBody["values"]).To(gomega.Equal([][]string{{"row-1", "Finance"}}))
		})

		ginkgo.It("should surface a rejected write", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			}))
			defer server.Close()

			err := newTestClient(server).Append(context.Background(), "Komentar!A:F", []string{"x"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Clear", func() {
		ginkgo.It("should post to the clear verb", func() {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			err := newTestClient(server).Clear(context.Background(), "documents!A3:I3")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(gotPath).To(gomega.ContainSubstring(":clear"))
		})
	})
})
