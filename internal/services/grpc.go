package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dpup/migration.ersn.net/server/internal/dataset"
)

// MigrationServiceName is the fully qualified gRPC service name
const MigrationServiceName = "migration.v1.MigrationService"

// MigrationServer is the gRPC surface of MigrationService. Results are
// returned as generic structs carrying the same JSON shape as the HTTP API.
type MigrationServer interface {
	ListSpecies(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetStats(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetMonthlySummary(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// MigrationServiceDesc describes MigrationServer for grpc.ServiceRegistrar
var MigrationServiceDesc = grpc.ServiceDesc{
	ServiceName: MigrationServiceName,
	HandlerType: (*MigrationServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListSpecies", Handler: listSpeciesHandler},
		{MethodName: "GetStats", Handler: getStatsHandler},
		{MethodName: "GetMonthlySummary", Handler: getMonthlySummaryHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterMigrationServer registers srv with a gRPC server
func RegisterMigrationServer(r grpc.ServiceRegistrar, srv MigrationServer) {
	r.RegisterService(&MigrationServiceDesc, srv)
}

// GRPCServer adapts MigrationService to MigrationServer
type GRPCServer struct {
	svc *MigrationService
}

// NewGRPCServer creates a gRPC adapter for svc
func NewGRPCServer(svc *MigrationService) *GRPCServer {
	return &GRPCServer{svc: svc}
}

var _ MigrationServer = (*GRPCServer)(nil)

// ListSpecies implements MigrationServer
func (g *GRPCServer) ListSpecies(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(map[string]any{"species": g.svc.ListSpecies(ctx)})
}

// GetStats implements MigrationServer. Season labels follow the
// accept-language request metadata.
func (g *GRPCServer) GetStats(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	lang := language.English
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("accept-language"); len(values) > 0 {
			if tags, _, err := language.ParseAcceptLanguage(values[0]); err == nil && len(tags) > 0 {
				lang = tags[0]
			}
		}
	}

	stats, err := g.svc.GetStats(ctx, req.GetValue(), lang)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(stats)
}

// GetMonthlySummary implements MigrationServer
func (g *GRPCServer) GetMonthlySummary(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	summary, err := g.svc.GetMonthlySummary(ctx, req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]any{"species_id": req.GetValue(), "periods": summary})
}

// toStruct converts a JSON-serializable value to a protobuf Struct
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}

func toStatus(err error) error {
	if errors.Is(err, dataset.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, fmt.Sprintf("migration analysis failed: %v", err))
}

func listSpeciesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MigrationServer).ListSpecies(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + MigrationServiceName + "/ListSpecies",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MigrationServer).ListSpecies(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getStatsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MigrationServer).GetStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + MigrationServiceName + "/GetStats",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MigrationServer).GetStats(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func getMonthlySummaryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MigrationServer).GetMonthlySummary(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + MigrationServiceName + "/GetMonthlySummary",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MigrationServer).GetMonthlySummary(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
