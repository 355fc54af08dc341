package mealserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "mealmax.v1.MealMax"

// MealMaxServer is the server API for the mealmax.v1.MealMax service. Every
// method takes and returns a google.protobuf.Struct.
type MealMaxServer interface {
	CreateMeal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteMeal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMealByID(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMealByName(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMeals(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Leaderboard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PrepCombatant(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearCombatants(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCombatants(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Battle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearCatalog(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(MealMaxServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

var methods = map[string]unaryMethod{
	"CreateMeal":      MealMaxServer.CreateMeal,
	"DeleteMeal":      MealMaxServer.DeleteMeal,
	"GetMealByID":     MealMaxServer.GetMealByID,
	"GetMealByName":   MealMaxServer.GetMealByName,
	"ListMeals":       MealMaxServer.ListMeals,
	"Leaderboard":     MealMaxServer.Leaderboard,
	"PrepCombatant":   MealMaxServer.PrepCombatant,
	"ClearCombatants": MealMaxServer.ClearCombatants,
	"GetCombatants":   MealMaxServer.GetCombatants,
	"Battle":          MealMaxServer.Battle,
	"ClearCatalog":    MealMaxServer.ClearCatalog,
}

func unaryHandler(name string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MealMaxServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + name,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MealMaxServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// serviceDesc builds the grpc.ServiceDesc for mealmax.v1.MealMax.
func serviceDesc() *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*MealMaxServer)(nil),
	}
	for name, call := range methods {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    unaryHandler(name, call),
		})
	}
	return desc
}

// RegisterMealMaxServer registers srv on s.
//
// Precondition: s must not be serving yet.
func RegisterMealMaxServer(s grpc.ServiceRegistrar, srv MealMaxServer) {
	s.RegisterService(serviceDesc(), srv)
}

// Client is a thin client for mealmax.v1.MealMax.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req, which may be nil for methods without input.
//
// Postcondition: Returns the decoded response or a gRPC status error.
func (c *Client) Call(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
