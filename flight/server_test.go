package flight

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/rowselect/auth"
	"github.com/hugr-lab/rowselect/catalog"
	"github.com/hugr-lab/rowselect/filter"
	"github.com/hugr-lab/rowselect/internal/msgpack"
	"github.com/hugr-lab/rowselect/internal/serialize"
)

var foodSchema = arrow.NewSchema([]arrow.Field{
	{Name: "Food", Type: arrow.BinaryTypes.String},
	{Name: "Kind", Type: arrow.BinaryTypes.String},
}, nil)

func foodBatch(mem memory.Allocator, rows ...[2]string) arrow.RecordBatch {
	b := array.NewRecordBuilder(mem, foodSchema)
	defer b.Release()
	for _, r := range rows {
		b.Field(0).(*array.StringBuilder).Append(r[0])
		b.Field(1).(*array.StringBuilder).Append(r[1])
	}
	return b.NewRecordBatch()
}

// testCatalog serves "foods" as two batches, a table whose scan panics and
// a table whose scan returns no reader.
func testCatalog(t *testing.T, mem memory.Allocator) *catalog.StaticCatalog {
	t.Helper()

	b1 := foodBatch(mem,
		[2]string{"apples", "fruit"},
		[2]string{"apple pie", "dessert"},
		[2]string{"pineapple", "fruit"},
		[2]string{"bread", "bakery"},
	)
	b2 := foodBatch(mem,
		[2]string{"cheesecake", "dessert"},
		[2]string{"fries", "side"},
		[2]string{"apple cake", "dessert"},
		[2]string{"pancakes", "dessert"},
	)
	defer b1.Release()
	defer b2.Release()

	foods, err := catalog.NewStaticTable("foods", "Things to eat", foodSchema, []arrow.RecordBatch{b1, b2})
	if err != nil {
		t.Fatalf("NewStaticTable failed: %v", err)
	}
	t.Cleanup(foods.Release)

	cat := catalog.NewStaticCatalog()
	if err := cat.AddTable(foods); err != nil {
		t.Fatal(err)
	}
	broken := catalog.NewFuncTable("broken", "", foodSchema, func(context.Context) (array.RecordReader, error) {
		panic("scan exploded")
	})
	if err := cat.AddTable(broken); err != nil {
		t.Fatal(err)
	}
	void := catalog.NewFuncTable("void", "", foodSchema, func(context.Context) (array.RecordReader, error) {
		return nil, nil
	})
	if err := cat.AddTable(void); err != nil {
		t.Fatal(err)
	}
	return cat
}

type testServer struct {
	client flight.FlightServiceClient
}

func newTestServer(t *testing.T) *testServer {
	return newAuthTestServer(t, nil)
}

// newAuthTestServer starts a server that authenticates with a when non-nil.
func newAuthTestServer(t *testing.T, a auth.Authenticator) *testServer {
	t.Helper()

	mem := memory.NewGoAllocator()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create listener: %v", err)
	}

	var (
		opts  []grpc.ServerOption
		authz auth.TableAuthorizer
	)
	if a != nil {
		opts = append(opts,
			grpc.UnaryInterceptor(auth.UnaryServerInterceptor(a)),
			grpc.StreamInterceptor(auth.StreamServerInterceptor(a)),
		)
		authz, _ = a.(auth.TableAuthorizer)
	}

	grpcServer := grpc.NewServer(opts...)
	RegisterFlightServer(grpcServer, NewServer(testCatalog(t, mem), mem, slog.New(slog.DiscardHandler), authz))
	go func() {
		_ = grpcServer.Serve(lis)
	}()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		grpcServer.Stop()
	})

	return &testServer{client: flight.NewFlightServiceClient(conn)}
}

// doGet fetches the ticket and returns the streamed Food values and the
// number of columns of the stream schema.
func (s *testServer) doGet(t *testing.T, td *TicketData) ([]string, int, error) {
	t.Helper()
	return s.doGetContext(t, context.Background(), td)
}

func (s *testServer) doGetContext(t *testing.T, ctx context.Context, td *TicketData) ([]string, int, error) {
	t.Helper()

	ticket, err := EncodeTicket(td)
	if err != nil {
		t.Fatalf("EncodeTicket failed: %v", err)
	}

	stream, err := s.client.DoGet(ctx, &flight.Ticket{Ticket: ticket})
	if err != nil {
		return nil, 0, err
	}

	reader, err := flight.NewRecordReader(stream)
	if err != nil {
		return nil, 0, err
	}
	defer reader.Release()

	foods := []string{}
	for reader.Next() {
		rec := reader.RecordBatch()
		col := rec.Column(0).(*array.String)
		for i := 0; i < col.Len(); i++ {
			foods = append(foods, col.Value(i))
		}
	}
	if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, 0, err
	}
	return foods, reader.Schema().NumFields(), nil
}

// TestDoGet tests filtered streaming across batch boundaries.
func TestDoGet(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		ticket *TicketData
		want   []string
		fields int
	}{
		{
			name:   "no filter",
			ticket: &TicketData{Table: "foods"},
			want:   []string{"apples", "apple pie", "pineapple", "bread", "cheesecake", "fries", "apple cake", "pancakes"},
			fields: 2,
		},
		{
			name:   "contains",
			ticket: &TicketData{Table: "foods", Filter: filter.Contains("Food", "apple")},
			want:   []string{"apples", "apple pie", "pineapple", "apple cake"},
			fields: 2,
		},
		{
			name: "menu expression",
			ticket: &TicketData{Table: "foods", Filter: filter.Or(
				filter.And(filter.Contains("Food", "apple"), filter.Not(filter.Contains("Food", "s"))),
				filter.Contains("Food", "cake"),
			)},
			want:   []string{"apple pie", "pineapple", "cheesecake", "apple cake", "pancakes"},
			fields: 2,
		},
		{
			name:   "equals with projection",
			ticket: &TicketData{Table: "foods", Filter: filter.Equals("Kind", "dessert"), Columns: []string{"Food"}},
			want:   []string{"apple pie", "cheesecake", "apple cake", "pancakes"},
			fields: 1,
		},
		{
			name:   "missing column selects nothing",
			ticket: &TicketData{Table: "foods", Filter: filter.Contains("Price", "")},
			want:   []string{},
			fields: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fields, err := srv.doGet(t, tt.ticket)
			if err != nil {
				t.Fatalf("DoGet failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
			if fields != tt.fields {
				t.Errorf("schema has %d fields, want %d", fields, tt.fields)
			}
		})
	}
}

// TestDoGetErrors tests the status codes reported for failing requests.
func TestDoGetErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		ticket []byte
		want   codes.Code
	}{
		{"garbage ticket", []byte("nope"), codes.InvalidArgument},
		{"unknown table", mustTicket(t, &TicketData{Table: "drinks"}), codes.NotFound},
		{"unknown column", mustTicket(t, &TicketData{Table: "foods", Columns: []string{"Price"}}), codes.InvalidArgument},
		{"panicking scan", mustTicket(t, &TicketData{Table: "broken"}), codes.Internal},
		{"nil reader", mustTicket(t, &TicketData{Table: "void"}), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, err := srv.client.DoGet(context.Background(), &flight.Ticket{Ticket: tt.ticket})
			if err == nil {
				_, err = stream.Recv()
			}
			if status.Code(err) != tt.want {
				t.Errorf("code = %v, want %v (err: %v)", status.Code(err), tt.want, err)
			}
		})
	}
}

func mustTicket(t *testing.T, td *TicketData) []byte {
	t.Helper()
	ticket, err := EncodeTicket(td)
	if err != nil {
		t.Fatalf("EncodeTicket failed: %v", err)
	}
	return ticket
}

// TestListFlights tests table discovery.
func TestListFlights(t *testing.T) {
	srv := newTestServer(t)

	stream, err := srv.client.ListFlights(context.Background(), &flight.Criteria{})
	if err != nil {
		t.Fatalf("ListFlights failed: %v", err)
	}

	var names []string
	for {
		info, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("stream.Recv() failed: %v", err)
		}
		names = append(names, info.GetFlightDescriptor().GetPath()[0])

		schema, err := flight.DeserializeSchema(info.GetSchema(), memory.DefaultAllocator)
		if err != nil {
			t.Fatalf("DeserializeSchema failed: %v", err)
		}
		if !schema.Equal(foodSchema) {
			t.Errorf("unexpected schema for %s: %s", names[len(names)-1], schema)
		}

		td, err := DecodeTicket(info.GetEndpoint()[0].GetTicket().GetTicket())
		if err != nil {
			t.Fatalf("DecodeTicket failed: %v", err)
		}
		if td.Table != names[len(names)-1] || td.Filter != nil {
			t.Errorf("unexpected ticket: %+v", td)
		}
	}

	if diff := cmp.Diff([]string{"broken", "foods", "void"}, names); diff != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", diff)
	}

	stream, err = srv.client.ListFlights(context.Background(), &flight.Criteria{Expression: []byte("fo")})
	if err != nil {
		t.Fatalf("ListFlights failed: %v", err)
	}
	info, err := stream.Recv()
	if err != nil {
		t.Fatalf("stream.Recv() failed: %v", err)
	}
	if info.GetFlightDescriptor().GetPath()[0] != "foods" {
		t.Errorf("prefix filter returned %v", info.GetFlightDescriptor().GetPath())
	}
	if _, err := stream.Recv(); err != io.EOF {
		t.Errorf("expected EOF after one result, got %v", err)
	}
}

// TestGetFlightInfo tests path and command descriptors.
func TestGetFlightInfo(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	info, err := srv.client.GetFlightInfo(ctx, &flight.FlightDescriptor{
		Type: flight.DescriptorPATH,
		Path: []string{"foods"},
	})
	if err != nil {
		t.Fatalf("GetFlightInfo(PATH) failed: %v", err)
	}
	schema, err := flight.DeserializeSchema(info.GetSchema(), memory.DefaultAllocator)
	if err != nil {
		t.Fatalf("DeserializeSchema failed: %v", err)
	}
	if schema.NumFields() != 2 {
		t.Errorf("expected 2 fields, got %d", schema.NumFields())
	}

	cmd := mustTicket(t, &TicketData{Table: "foods", Filter: filter.Equals("Food", "fries"), Columns: []string{"Kind"}})
	info, err = srv.client.GetFlightInfo(ctx, &flight.FlightDescriptor{Type: flight.DescriptorCMD, Cmd: cmd})
	if err != nil {
		t.Fatalf("GetFlightInfo(CMD) failed: %v", err)
	}
	schema, err = flight.DeserializeSchema(info.GetSchema(), memory.DefaultAllocator)
	if err != nil {
		t.Fatalf("DeserializeSchema failed: %v", err)
	}
	if schema.NumFields() != 1 || schema.Field(0).Name != "Kind" {
		t.Errorf("expected projected schema [Kind], got %s", schema)
	}

	errTests := []struct {
		name string
		desc *flight.FlightDescriptor
		want codes.Code
	}{
		{"long path", &flight.FlightDescriptor{Type: flight.DescriptorPATH, Path: []string{"main", "foods"}}, codes.InvalidArgument},
		{"unknown table", &flight.FlightDescriptor{Type: flight.DescriptorPATH, Path: []string{"drinks"}}, codes.NotFound},
		{"bad command", &flight.FlightDescriptor{Type: flight.DescriptorCMD, Cmd: []byte("x")}, codes.InvalidArgument},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.client.GetFlightInfo(ctx, tt.desc)
			if status.Code(err) != tt.want {
				t.Errorf("code = %v, want %v (err: %v)", status.Code(err), tt.want, err)
			}
		})
	}
}

// TestDoActionListTables tests the compressed table listing.
func TestDoActionListTables(t *testing.T) {
	srv := newTestServer(t)

	stream, err := srv.client.DoAction(context.Background(), &flight.Action{Type: ActionListTables})
	if err != nil {
		t.Fatalf("DoAction(list_tables) failed: %v", err)
	}
	result, err := stream.Recv()
	if err != nil {
		t.Fatalf("stream.Recv() failed: %v", err)
	}

	data, err := serialize.Decompress(result.Body)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	rec, err := serialize.DeserializeTables(data, memory.DefaultAllocator)
	if err != nil {
		t.Fatalf("DeserializeTables failed: %v", err)
	}
	defer rec.Release()

	if rec.NumRows() != 3 {
		t.Fatalf("expected 3 tables, got %d", rec.NumRows())
	}
	if name := rec.Column(0).(*array.String).Value(1); name != "foods" {
		t.Errorf("second table = %s, want foods", name)
	}

	if _, err := stream.Recv(); err != io.EOF {
		t.Errorf("expected EOF after result, got %v", err)
	}
}

// TestDoActionEncodeTicket tests building a filtered ticket from JSON.
func TestDoActionEncodeTicket(t *testing.T) {
	srv := newTestServer(t)

	body, err := msgpack.Encode(map[string]any{
		"table":   "foods",
		"filter":  `{"kind":"equals","column":"Kind","value":"fruit"}`,
		"columns": []string{"Food"},
	})
	if err != nil {
		t.Fatal(err)
	}

	stream, err := srv.client.DoAction(context.Background(), &flight.Action{Type: ActionEncodeTicket, Body: body})
	if err != nil {
		t.Fatalf("DoAction(encode_ticket) failed: %v", err)
	}
	result, err := stream.Recv()
	if err != nil {
		t.Fatalf("stream.Recv() failed: %v", err)
	}

	td, err := DecodeTicket(result.Body)
	if err != nil {
		t.Fatalf("DecodeTicket failed: %v", err)
	}
	got, _, err := srv.doGet(t, td)
	if err != nil {
		t.Fatalf("DoGet failed: %v", err)
	}
	if diff := cmp.Diff([]string{"apples", "pineapple"}, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	bad, _ := msgpack.Encode(map[string]any{"table": "foods", "filter": `{"kind":"not"}`})
	stream, err = srv.client.DoAction(context.Background(), &flight.Action{Type: ActionEncodeTicket, Body: bad})
	if err == nil {
		_, err = stream.Recv()
	}
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", status.Code(err))
	}
}

// TestDoActionUnknown tests that unknown actions are rejected.
func TestDoActionUnknown(t *testing.T) {
	srv := newTestServer(t)

	stream, err := srv.client.DoAction(context.Background(), &flight.Action{Type: "drop_table"})
	if err == nil {
		_, err = stream.Recv()
	}
	if status.Code(err) != codes.Unimplemented {
		t.Errorf("code = %v, want Unimplemented", status.Code(err))
	}
}

// TestListActions tests action discovery.
func TestListActions(t *testing.T) {
	srv := newTestServer(t)

	stream, err := srv.client.ListActions(context.Background(), &flight.Empty{})
	if err != nil {
		t.Fatalf("ListActions failed: %v", err)
	}
	var got []string
	for {
		a, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("stream.Recv() failed: %v", err)
		}
		got = append(got, a.GetType())
	}
	if diff := cmp.Diff([]string{ActionListTables, ActionEncodeTicket}, got); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
}

// TestStatusCode tests the error to gRPC code mapping.
func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{context.Canceled, codes.Canceled},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{ErrInvalidTicket, codes.InvalidArgument},
		{filter.ErrInvalidExpression, codes.InvalidArgument},
		{status.Error(codes.NotFound, "x"), codes.NotFound},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		if got := statusCode(tt.err); got != tt.want {
			t.Errorf("statusCode(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func bearer(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

// TestTableAuthorization tests that grants restrict reads and listings.
func TestTableAuthorization(t *testing.T) {
	tokens := auth.BearerAuth(func(token string) (string, error) {
		switch token {
		case "t-alice":
			return "alice", nil
		case "t-bob":
			return "bob", nil
		}
		return "", errors.New("unknown token")
	})
	srv := newAuthTestServer(t, auth.TableAllowList(tokens, map[string][]string{
		"alice": {"foods", "broken"},
		"bob":   {"broken"},
	}))

	got, _, err := srv.doGetContext(t, bearer("t-alice"), &TicketData{Table: "foods", Filter: filter.Equals("Food", "fries")})
	if err != nil {
		t.Fatalf("DoGet as alice failed: %v", err)
	}
	if diff := cmp.Diff([]string{"fries"}, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	_, _, err = srv.doGetContext(t, bearer("t-bob"), &TicketData{Table: "foods"})
	if status.Code(err) != codes.PermissionDenied {
		t.Errorf("DoGet as bob: code = %v, want PermissionDenied", status.Code(err))
	}

	_, _, err = srv.doGetContext(t, context.Background(), &TicketData{Table: "foods"})
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("DoGet without token: code = %v, want Unauthenticated", status.Code(err))
	}

	_, err = srv.client.GetFlightInfo(bearer("t-bob"), &flight.FlightDescriptor{Type: flight.DescriptorPATH, Path: []string{"foods"}})
	if status.Code(err) != codes.PermissionDenied {
		t.Errorf("GetFlightInfo as bob: code = %v, want PermissionDenied", status.Code(err))
	}

	stream, err := srv.client.ListFlights(bearer("t-bob"), &flight.Criteria{})
	if err != nil {
		t.Fatalf("ListFlights failed: %v", err)
	}
	var names []string
	for {
		info, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("stream.Recv() failed: %v", err)
		}
		names = append(names, info.GetFlightDescriptor().GetPath()[0])
	}
	if diff := cmp.Diff([]string{"broken"}, names); diff != "" {
		t.Errorf("visible tables mismatch (-want +got):\n%s", diff)
	}
}

// panicCatalog fails every lookup with a panic.
type panicCatalog struct{}

func (panicCatalog) Tables(context.Context) ([]catalog.Table, error) { panic("tables exploded") }

func (panicCatalog) Table(context.Context, string) (catalog.Table, error) { panic("table exploded") }

// TestPanickingCatalog tests that catalog panics become Internal errors.
func TestPanickingCatalog(t *testing.T) {
	s := NewServer(panicCatalog{}, memory.NewGoAllocator(), slog.New(slog.DiscardHandler), nil)
	ctx := context.Background()

	if _, err := s.visibleTables(ctx); status.Code(err) != codes.Internal {
		t.Errorf("visibleTables: code = %v, want Internal (err: %v)", status.Code(err), err)
	}
	if _, err := s.lookupTable(ctx, "foods"); status.Code(err) != codes.Internal {
		t.Errorf("lookupTable: code = %v, want Internal (err: %v)", status.Code(err), err)
	}
}
