package app

import (
	"fmt"
	"sort"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/LeonardoBeccarini/labmet/pkg/aquacroppb"
)

// PlotRouter maps a plot to the aquacrop instance that owns it.
type PlotRouter interface {
	Get(plot string) (aquacroppb.AquaCropClient, bool)
	Plots() []string
	Close()
}

// plotRouter keeps one gRPC connection per address; plots sharing an
// instance share the connection.
type plotRouter struct {
	mu    sync.RWMutex
	conns map[string]*grpc.ClientConn
	clis  map[string]aquacroppb.AquaCropClient
}

var _ PlotRouter = (*plotRouter)(nil)

// NewPlotRouter takes plot -> host:port, as parsed from
// "plot1=host1:50051,plot2=host2:50051". Connections are established lazily.
func NewPlotRouter(addrs map[string]string) (PlotRouter, error) {
	pr := &plotRouter{
		conns: make(map[string]*grpc.ClientConn),
		clis:  make(map[string]aquacroppb.AquaCropClient),
	}
	for plot, addr := range addrs {
		conn, ok := pr.conns[addr]
		if !ok {
			var err error
			conn, err = grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				pr.Close()
				return nil, fmt.Errorf("dial %s (%s): %w", plot, addr, err)
			}
			pr.conns[addr] = conn
		}
		pr.clis[plot] = aquacroppb.NewAquaCropClient(conn)
	}
	return pr, nil
}

func (r *plotRouter) Get(plot string) (aquacroppb.AquaCropClient, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cli, ok := r.clis[plot]
	return cli, ok
}

func (r *plotRouter) Plots() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.clis))
	for p := range r.clis {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (r *plotRouter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.conns {
		if c != nil {
			_ = c.Close()
		}
	}
	r.clis = map[string]aquacroppb.AquaCropClient{}
	r.conns = map[string]*grpc.ClientConn{}
}
