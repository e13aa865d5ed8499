// Package monitoring serves a web page and an HTTP API that show and control
// a running counter simulator.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/countersim/counter"
	"github.com/sarchlab/countersim/monitoring/web"
	"github.com/sarchlab/countersim/sim"
)

// Simulator is the part of a counter simulator that the monitor controls.
type Simulator interface {
	sim.Named
	sync.Locker

	AddDisplay(d counter.Display)
	Start(freq sim.Freq)
	Stop()
	SinglePulse()
	SetFrequency(freq sim.Freq)
	SetManualInput(l counter.Line, v counter.Bit)
	Reset()
	Frequency() sim.Freq
	State() counter.State
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	engine      sim.Engine
	simulator   Simulator
	frequencies []sim.Freq
	portNumber  int

	profileDuration time.Duration

	hub      *stateHub
	listener net.Listener
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
		hub:             newStateHub(),
	}
}

// WithPortNumber sets the port number of the monitor. Port 0 picks a free
// port.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithFrequencies sets the frequencies offered by the web page.
func (m *Monitor) WithFrequencies(freqs []sim.Freq) *Monitor {
	m.frequencies = append([]sim.Freq(nil), freqs...)
	return m
}

// RegisterEngine registers the engine that is used in the simulation.
func (m *Monitor) RegisterEngine(e sim.Engine) {
	m.engine = e
}

// RegisterSimulator registers the simulator to show and control. The monitor
// becomes one of its displays.
func (m *Monitor) RegisterSimulator(s Simulator) {
	m.simulator = s
	m.hub.source = s.State
	s.AddDisplay(m.hub)
}

// Router returns the handler of all the monitor routes.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", m.state).Methods(http.MethodGet)
	api.HandleFunc("/frequencies", m.listFrequencies).Methods(http.MethodGet)
	api.HandleFunc("/start", m.start).Methods(http.MethodPost)
	api.HandleFunc("/stop", m.stop).Methods(http.MethodPost)
	api.HandleFunc("/pulse", m.pulse).Methods(http.MethodPost)
	api.HandleFunc("/reset", m.reset).Methods(http.MethodPost)
	api.HandleFunc("/frequency/{hz}", m.setFrequency).Methods(http.MethodPost)
	api.HandleFunc("/input/{line}/{value}", m.setInput).Methods(http.MethodPost)
	api.HandleFunc("/stream", m.stream).Methods(http.MethodGet)
	api.HandleFunc("/pause", m.pauseEngine).Methods(http.MethodPost)
	api.HandleFunc("/continue", m.continueEngine).Methods(http.MethodPost)
	api.HandleFunc("/now", m.now).Methods(http.MethodGet)
	api.HandleFunc("/component", m.componentDetails).Methods(http.MethodGet)
	api.HandleFunc("/field/{path}", m.fieldValue).Methods(http.MethodGet)
	api.HandleFunc("/resource", m.listResources).Methods(http.MethodGet)
	api.HandleFunc("/profile", m.collectProfile).Methods(http.MethodGet)

	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// Listen opens the port of the monitor and returns the URL of the web page.
func (m *Monitor) Listen() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", fmt.Errorf("monitor: %w", err)
	}

	m.listener = listener

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	return url, nil
}

// Serve answers requests until ctx is done. Listen must be called first.
func (m *Monitor) Serve(ctx context.Context) error {
	if m.listener == nil {
		return errors.New("monitor: not listening")
	}

	server := &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()

	go m.hub.run(hubCtx)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	err := server.Serve(m.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (m *Monitor) simulatorOr503(w http.ResponseWriter) Simulator {
	if m.simulator == nil {
		http.Error(w, "no simulator registered", http.StatusServiceUnavailable)
	}

	return m.simulator
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	s := m.simulatorOr503(w)
	if s == nil {
		return
	}

	writeJSON(w, s.State())
}

type frequenciesRsp struct {
	Current     float64   `json:"current"`
	Frequencies []float64 `json:"frequencies"`
}

func (m *Monitor) listFrequencies(w http.ResponseWriter, _ *http.Request) {
	s := m.simulatorOr503(w)
	if s == nil {
		return
	}

	rsp := frequenciesRsp{
		Current:     float64(s.Frequency()),
		Frequencies: make([]float64, 0, len(m.frequencies)),
	}

	for _, f := range m.frequencies {
		rsp.Frequencies = append(rsp.Frequencies, float64(f))
	}

	writeJSON(w, rsp)
}

// command runs an operation on the simulator and answers with the new state.
func (m *Monitor) command(w http.ResponseWriter, op func(s Simulator)) {
	s := m.simulatorOr503(w)
	if s == nil {
		return
	}

	op(s)
	m.hub.notify()

	writeJSON(w, s.State())
}

func (m *Monitor) start(w http.ResponseWriter, r *http.Request) {
	freq := sim.Freq(0)

	if hz := r.URL.Query().Get("hz"); hz != "" {
		f, err := counter.ParseFrequency(hz)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		freq = f
	}

	m.command(w, func(s Simulator) {
		if freq == 0 {
			freq = s.Frequency()
		}

		s.Start(freq)
	})
}

func (m *Monitor) stop(w http.ResponseWriter, _ *http.Request) {
	m.command(w, Simulator.Stop)
}

func (m *Monitor) pulse(w http.ResponseWriter, _ *http.Request) {
	m.command(w, Simulator.SinglePulse)
}

func (m *Monitor) reset(w http.ResponseWriter, _ *http.Request) {
	m.command(w, Simulator.Reset)
}

func (m *Monitor) setFrequency(w http.ResponseWriter, r *http.Request) {
	freq, err := counter.ParseFrequency(mux.Vars(r)["hz"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.command(w, func(s Simulator) { s.SetFrequency(freq) })
}

func (m *Monitor) setInput(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	line, err := counter.ParseLine(vars["line"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var bit counter.Bit

	switch vars["value"] {
	case "0":
		bit = 0
	case "1":
		bit = 1
	default:
		http.Error(w, "value must be 0 or 1", http.StatusBadRequest)
		return
	}

	m.command(w, func(s Simulator) { s.SetManualInput(line, bit) })
}

func (m *Monitor) engineOr503(w http.ResponseWriter) sim.Engine {
	if m.engine == nil {
		http.Error(w, "no engine registered", http.StatusServiceUnavailable)
	}

	return m.engine
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	if e := m.engineOr503(w); e != nil {
		e.Pause()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	if e := m.engineOr503(w); e != nil {
		e.Continue()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	if e := m.engineOr503(w); e != nil {
		fmt.Fprintf(w, "{\"now\":%.10f}", e.CurrentTime())
	}
}

func (m *Monitor) componentDetails(w http.ResponseWriter, _ *http.Request) {
	m.serializeSimulator(w, nil)
}

func (m *Monitor) fieldValue(w http.ResponseWriter, r *http.Request) {
	m.serializeSimulator(w, strings.Split(mux.Vars(r)["path"], "."))
}

// serializeSimulator dumps the simulator, or one of its fields, with goseth.
// The simulator is locked so that the dump never sees half a transition.
func (m *Monitor) serializeSimulator(w http.ResponseWriter, fields []string) {
	s := m.simulatorOr503(w)
	if s == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(s)
	serializer.SetMaxDepth(1)

	if fields != nil {
		if err := serializer.SetEntryPoint(fields); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	buf := bytes.NewBuffer(nil)

	s.Lock()
	err := serializer.Serialize(buf)
	s.Unlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(data); err != nil {
		log.Printf("monitor: failed to write response: %v", err)
	}
}
