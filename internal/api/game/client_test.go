package game

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nsoview/nsoview/internal/constant"
)

func TestFetchPlayHistoriesSendsBearerAndUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer service-id-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != constant.UserAgentZnej {
			t.Errorf("User-Agent = %q, expected %q", got, constant.UserAgentZnej)
		}
		_, _ = w.Write([]byte(playHistoriesPayload))
	}))
	defer server.Close()

	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.playHistoriesURL = server.URL

	payload, err := client.FetchPlayHistories(context.Background(), "service-id-token")
	if err != nil {
		t.Fatalf("FetchPlayHistories() error = %v", err)
	}
	if entries := ParseGameList(payload, KeepAllDevices); len(entries) != 2 {
		t.Errorf("parsed %d entries from fetched payload, expected 2", len(entries))
	}
}

func TestFetchPlayHistoriesRejectsNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.playHistoriesURL = server.URL

	if _, err = client.FetchPlayHistories(context.Background(), "expired"); err == nil {
		t.Error("FetchPlayHistories() expected error on 401")
	}
}

func TestListWebServices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer web-api-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != constant.UserAgentZnca {
			t.Errorf("User-Agent = %q, expected %q", got, constant.UserAgentZnca)
		}
		_, _ = w.Write([]byte(`{"status":0,"result":[
			{"id":5741031244955648,"name":"Splatoon 3","uri":"https://api.lp1.av5ja.srv.nintendo.net/","imageUri":"https://img.example/s3"},
			{"id":4953919198265344,"name":"Animal Crossing: New Horizons","uri":"https://web.sd.lp1.acbaa.srv.nintendo.net/","imageUri":"https://img.example/acnh"}
		]}`))
	}))
	defer server.Close()

	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.listWebServicesURL = server.URL

	services, err := client.ListWebServices(context.Background(), "web-api-token")
	if err != nil {
		t.Fatalf("ListWebServices() error = %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("ListWebServices() returned %d services, expected 2", len(services))
	}
	if services[0].Name != "Splatoon 3" || services[0].ID != 5741031244955648 {
		t.Errorf("first service = %+v", services[0])
	}
}

func TestListWebServicesRejectsNonZeroStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":9404,"errorMessage":"Token expired."}`))
	}))
	defer server.Close()

	client, err := NewClient(nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	client.listWebServicesURL = server.URL

	if _, err = client.ListWebServices(context.Background(), "stale"); err == nil {
		t.Error("ListWebServices() expected error on non-zero status")
	}
}
