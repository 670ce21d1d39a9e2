package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"lpfcatalog/internal/store"
)

const defaultLimit = 50

// Server answers CatalogService from the catalog store.
type Server struct {
	Repo *store.Repo
}

func NewServer(repo *store.Repo) *Server {
	return &Server{Repo: repo}
}

func (s *Server) ListItems(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	query := store.ItemQuery{
		Category: stringField(req, "category"),
		Series:   stringField(req, "series"),
		Q:        stringField(req, "q"),
		Limit:    intField(req, "limit"),
		Offset:   intField(req, "offset"),
	}
	if query.Limit <= 0 {
		query.Limit = defaultLimit
	}
	if query.Offset < 0 {
		return nil, status.Error(codes.InvalidArgument, "offset must be >= 0")
	}

	total, err := s.Repo.CountItems(ctx, query)
	if err != nil {
		return nil, status.Error(codes.Internal, "count failed")
	}
	items, err := s.Repo.ListItems(ctx, query)
	if err != nil {
		return nil, status.Error(codes.Internal, "list failed")
	}

	return toStruct(map[string]any{
		"total":  total,
		"limit":  query.Limit,
		"offset": query.Offset,
		"items":  items,
	})
}

func (s *Server) GetItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := stringField(req, "id")
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}

	item, err := s.Repo.GetItem(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, status.Error(codes.NotFound, "not found")
	}
	if err != nil {
		return nil, status.Error(codes.Internal, "get failed")
	}
	return toStruct(map[string]any{"item": item})
}

func (s *Server) ListSeries(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	series, err := s.Repo.ListSeries(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "list failed")
	}
	return toStruct(map[string]any{"total": len(series), "series": series})
}

func (s *Server) GetSummary(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	sum, err := s.Repo.Summary(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, status.Error(codes.NotFound, "catalog not organized yet")
	}
	if err != nil {
		return nil, status.Error(codes.Internal, "summary failed")
	}
	return toStruct(sum)
}

// toStruct goes through the JSON encoding so replies carry exactly the
// field names and per-category shapes the HTTP API serves.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode failed")
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, status.Error(codes.Internal, "encode failed")
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode failed")
	}
	return out, nil
}

func stringField(req *structpb.Struct, key string) string {
	return strings.TrimSpace(req.GetFields()[key].GetStringValue())
}

// intField accepts a number or a numeric string; anything else is 0.
func intField(req *structpb.Struct, key string) int {
	v := req.GetFields()[key]
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return int(k.NumberValue)
	case *structpb.Value_StringValue:
		n, err := strconv.Atoi(strings.TrimSpace(k.StringValue))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
