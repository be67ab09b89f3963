package aquacrop_service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/labmet/internal/model/messages"
	"github.com/LeonardoBeccarini/labmet/pkg/aquacroppb"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet"
	"github.com/LeonardoBeccarini/labmet/pkg/labmet/aquacrop"
)

// GrpcHandler serves labmet.AquaCrop on top of the controller.
type GrpcHandler struct {
	aquacroppb.UnimplementedAquaCropServer

	ctrl *Controller
}

var _ aquacroppb.AquaCropServer = (*GrpcHandler)(nil)

func NewGrpcHandler(ctrl *Controller) *GrpcHandler {
	return &GrpcHandler{ctrl: ctrl}
}

// ============== RPC: GetState ==============

func (h *GrpcHandler) GetState(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := strings.TrimSpace(req.GetFields()["plot_id"].GetStringValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "plot_id is required")
	}
	st, err := h.ctrl.Registry().State(id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(st)
}

// ============== RPC: Process ==============

func (h *GrpcHandler) Process(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()
	id := strings.TrimSpace(f["plot_id"].GetStringValue())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "plot_id is required")
	}

	ts := strings.TrimSpace(f["time"].GetStringValue())
	if ts == "" {
		return nil, status.Error(codes.InvalidArgument, "time is required")
	}
	t, err := messages.ParseCollectedAt(ts)
	if err != nil {
		return nil, toStatus(err)
	}
	r := aquacrop.Reading{Time: t}
	for key, dst := range map[string]*float64{
		"temperature":   &r.Temperature,
		"illuminance":   &r.Illuminance,
		"soil_moisture": &r.SoilMoisture,
	} {
		v, err := number(f[key])
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "%s: %v", key, err)
		}
		*dst = v
	}

	evt, err := h.ctrl.ProcessPlot(ctx, id, r)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(evt)
}

// ============== Helpers ==============

// number accepts numeric and numeric string values.
func number(v *structpb.Value) (float64, error) {
	if v == nil {
		return 0, labmet.ErrType
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return k.NumberValue, nil
	case *structpb.Value_StringValue:
		return labmet.Float(k.StringValue)
	default:
		return 0, labmet.ErrType
	}
}

// toStruct converts a JSON-tagged value through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode: %v", err)
	}
	return s, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, labmet.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, labmet.ErrRange), errors.Is(err, labmet.ErrType):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, labmet.ErrDomain):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, labmet.ErrState):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
