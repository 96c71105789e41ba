package integration

import (
	"fmt"
	"net"
	"testing"

	"go.uber.org/zap"

	"github.com/kihiko-jay/mini-rdbms/internal/network"
	"github.com/kihiko-jay/mini-rdbms/internal/value"
)

// startServer runs a server over a users table on an ephemeral port and
// returns its address.
func startServer(t *testing.T) string {
	t.Helper()

	eng := newUsersDB(t)
	srv := network.NewServer(eng, zap.NewNop())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	t.Cleanup(func() { l.Close() })

	go srv.Serve(l)
	return l.Addr().String()
}

func TestServerQueryRoundTrip(t *testing.T) {
	addr := startServer(t)

	client, err := network.Dial(addr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	res, err := client.Query("SELECT * FROM users")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if res.Error != "" {
		t.Fatalf("Expected no error, got '%s'", res.Error)
	}

	foundAdmin := false
	for _, row := range res.Rows {
		for _, v := range row {
			if v == value.Text("admin") {
				foundAdmin = true
			}
		}
	}
	if !foundAdmin {
		t.Errorf("Expected a row containing 'admin', got: %+v", res.Rows)
	}

	headerFound := false
	for _, col := range res.Columns {
		if col == "id" {
			headerFound = true
			break
		}
	}
	if !headerFound {
		t.Errorf("Expected 'id' in columns, got: %+v", res.Columns)
	}
}

func TestServerWriteStatements(t *testing.T) {
	addr := startServer(t)

	client, err := network.Dial(addr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	res, err := client.Query("INSERT INTO users VALUES (4, 'dave', 'dave@example.com')")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if res.Error != "" {
		t.Fatalf("Expected no error, got '%s'", res.Error)
	}
	if res.Message != "INSERT 1" {
		t.Errorf("Expected 'INSERT 1', got '%s'", res.Message)
	}
	if res.RowsAffected != 1 {
		t.Errorf("Expected 1 row affected, got %d", res.RowsAffected)
	}

	res, err = client.Query("SELECT username FROM users WHERE id = 4")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(res.Rows))
	}
	if res.Rows[0][0] != value.Text("dave") {
		t.Errorf("Expected 'dave', got %v", res.Rows[0][0])
	}
}

// TestServerStatementErrors verifies failures come back in-band and the
// connection survives them.
func TestServerStatementErrors(t *testing.T) {
	addr := startServer(t)

	client, err := network.Dial(addr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	res, err := client.Query("SELECT * FROM nonexistent")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if res.Error == "" {
		t.Error("Expected an error for unknown table, got none")
	}

	res, err = client.Query("SELEKT *")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if res.Error == "" {
		t.Error("Expected a parse error, got none")
	}

	// Same connection keeps working after failures.
	res, err = client.Query("SELECT * FROM users")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if res.Error != "" {
		t.Fatalf("Expected no error, got '%s'", res.Error)
	}
	if len(res.Rows) != 3 {
		t.Errorf("Expected 3 rows, got %d", len(res.Rows))
	}
}

// TestServerConcurrentClients runs writers on separate connections and
// checks every insert landed exactly once.
func TestServerConcurrentClients(t *testing.T) {
	addr := startServer(t)

	const clients = 4
	done := make(chan error, clients)

	for i := 0; i < clients; i++ {
		go func(n int) {
			client, err := network.Dial(addr)
			if err != nil {
				done <- err
				return
			}
			defer client.Close()

			res, err := client.Query(fmt.Sprintf("INSERT INTO users VALUES (%d, 'user', NULL)", 4+n))
			if err != nil {
				done <- err
				return
			}
			if res.Error != "" {
				done <- fmt.Errorf("statement failed: %s", res.Error)
				return
			}
			done <- nil
		}(i)
	}

	for i := 0; i < clients; i++ {
		if err := <-done; err != nil {
			t.Fatalf("Client failed: %v", err)
		}
	}

	client, err := network.Dial(addr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	res, err := client.Query("SELECT * FROM users")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(res.Rows) != 3+clients {
		t.Errorf("Expected %d rows, got %d", 3+clients, len(res.Rows))
	}
}
