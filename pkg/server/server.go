// HTTP/WebSocket API for the smoothmotion trajectory service
//
// Exposes the profile planner and evaluator over a small REST surface
// plus a WebSocket endpoint that streams fixed-rate samples for one move
// per connection. The evaluator itself is stateless; all state here is
// connection bookkeeping.
//
// Copyright (C) 2026  Smoothmotion Developers
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"smoothmotion/pkg/axis"
	"smoothmotion/pkg/log"
	"smoothmotion/pkg/metrics"
	"smoothmotion/pkg/profile"
	"smoothmotion/pkg/sampler"
)

const softwareVersion = "smoothmotion-0.1.0"

// Config holds server configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8137".
	Addr string

	// Axes is the configured axis registry.
	Axes *axis.Registry

	// SampleRate is the WebSocket streaming rate in Hz.
	SampleRate float64

	// Realtime requests SCHED_FIFO for streaming goroutines.
	Realtime bool

	// Logger receives server logs; required.
	Logger *log.Logger
}

// Server serves trajectory planning and evaluation requests.
type Server struct {
	cfg        Config
	logger     *log.Logger
	httpServer *http.Server
	upgrader   websocket.Upgrader
	running    atomic.Bool
	startTime  time.Time

	metricsReg    *metrics.Registry
	evalTotal     *metrics.Counter
	evalSeconds   *metrics.Histogram
	activeStreams *metrics.Gauge
	streamSamples *metrics.Counter
}

// New creates a server; call Start to begin listening.
func New(cfg Config) *Server {
	s := &Server{
		cfg:       cfg,
		logger:    cfg.Logger.Component("server"),
		startTime: time.Now(),

		metricsReg: metrics.NewRegistry(),
		evalTotal: metrics.NewCounter("smoothmotion_evaluations_total",
			"Profile evaluations served"),
		evalSeconds: metrics.NewHistogram("smoothmotion_evaluation_seconds",
			"Profile evaluation latency", metrics.ExponentialBuckets(1e-7, 10, 6)),
		activeStreams: metrics.NewGauge("smoothmotion_active_streams",
			"Currently active WebSocket sample streams"),
		streamSamples: metrics.NewCounter("smoothmotion_stream_samples_total",
			"Samples delivered over WebSocket streams"),
	}
	s.metricsReg.MustRegister(s.evalTotal)
	s.metricsReg.MustRegister(s.evalSeconds)
	s.metricsReg.MustRegister(s.activeStreams)
	s.metricsReg.MustRegister(s.streamSamples)

	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	s.running.Store(true)
	return s
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/server/info", s.handleServerInfo)
	mux.HandleFunc("/axes/list", s.handleAxesList)
	mux.HandleFunc("/trajectory/plan", s.handlePlan)
	mux.HandleFunc("/trajectory/sample", s.handleSample)
	mux.HandleFunc("/websocket", s.handleWebSocket)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return mux
}

// Start begins serving; it blocks until the server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}
	s.running.Store(true)
	s.logger.Info("listening on %s", s.cfg.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down.
func (s *Server) Stop() error {
	s.running.Store(false)
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func (s *Server) handleServerInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"software_version": softwareVersion,
		"axes":             s.cfg.Axes.Names(),
		"sample_rate":      s.cfg.SampleRate,
		"uptime":           time.Since(s.startTime).Seconds(),
	})
}

func (s *Server) handleAxesList(w http.ResponseWriter, r *http.Request) {
	type axisInfo struct {
		Name        string  `json:"name"`
		MaxVelocity float64 `json:"max_velocity"`
		MaxAccel    float64 `json:"max_accel"`
		MaxJerk     float64 `json:"max_jerk"`
		PositionMin float64 `json:"position_min,omitempty"`
		PositionMax float64 `json:"position_max,omitempty"`
	}
	var axes []axisInfo
	for _, name := range s.cfg.Axes.Names() {
		a, err := s.cfg.Axes.Lookup(name)
		if err != nil {
			continue
		}
		info := axisInfo{
			Name:        a.Name,
			MaxVelocity: a.Limits.Velocity,
			MaxAccel:    a.Limits.Accel,
			MaxJerk:     a.Limits.Jerk,
		}
		// Omit infinite travel bounds from the JSON.
		if !math.IsInf(a.PositionMin, -1) {
			info.PositionMin = a.PositionMin
		}
		if !math.IsInf(a.PositionMax, 1) {
			info.PositionMax = a.PositionMax
		}
		axes = append(axes, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"axes": axes})
}

// checkedMove resolves the axis and validates the move endpoints; shared
// by the plan, sample and stream requests.
func (s *Server) checkedMove(axisName string, start, end float64) (*axis.Axis, error) {
	a, err := s.cfg.Axes.Lookup(axisName)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(end) || math.IsInf(end, 0) {
		return nil, fmt.Errorf("move endpoints must be finite")
	}
	if err := a.CheckMove(start, end); err != nil {
		return nil, err
	}
	return a, nil
}

// moveQuery parses the axis/start/end query triple.
func (s *Server) moveQuery(q interface{ Get(string) string }) (*axis.Axis, float64, float64, error) {
	start, err := parseFloat(q.Get("start"), "start")
	if err != nil {
		return nil, 0, 0, err
	}
	end, err := parseFloat(q.Get("end"), "end")
	if err != nil {
		return nil, 0, 0, err
	}
	a, err := s.checkedMove(q.Get("axis"), start, end)
	if err != nil {
		return nil, 0, 0, err
	}
	return a, start, end, nil
}

func parseFloat(v, name string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %q: %w", name, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parameter %q: must be finite", name)
	}
	return f, nil
}

type planResponse struct {
	Shape      string  `json:"shape"`
	JerkPeak   float64 `json:"jerk_peak"`
	Alpha      float64 `json:"alpha"`
	AccelTime  float64 `json:"accel_time"`
	CruiseTime float64 `json:"cruise_time"`
	Duration   float64 `json:"duration"`
	Distance   float64 `json:"distance"`
}

func makePlanResponse(p profile.Params) planResponse {
	return planResponse{
		Shape:      p.Shape.String(),
		JerkPeak:   p.JerkPeak,
		Alpha:      p.Alpha,
		AccelTime:  p.AccelTime,
		CruiseTime: p.CruiseTime,
		Duration:   p.Duration(),
		Distance:   p.Distance(),
	}
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	a, start, end, err := s.moveQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, makePlanResponse(a.Plan(start, end)))
}

type sampleResponse struct {
	Time   float64 `json:"t"`
	Pos    float64 `json:"pos"`
	Vel    float64 `json:"vel"`
	Accel  float64 `json:"accel"`
	Jerk   float64 `json:"jerk"`
	Active bool    `json:"active"`
	Done   bool    `json:"done"`
}

func makeSampleResponse(t float64, smp profile.Sample) sampleResponse {
	return sampleResponse{
		Time:   t,
		Pos:    smp.Pos,
		Vel:    smp.Vel,
		Accel:  smp.Accel,
		Jerk:   smp.Jerk,
		Active: smp.Active,
		Done:   smp.Done,
	}
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, start, end, err := s.moveQuery(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := parseFloat(q.Get("t"), "t")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	t0 := 0.0
	if v := q.Get("t0"); v != "" {
		if t0, err = parseFloat(v, "t0"); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	done := s.evalSeconds.Timer(nil)
	smp := a.Evaluate(t, t0, start, end)
	done()
	s.evalTotal.Inc(metrics.Labels{"axis": a.Name})

	writeJSON(w, http.StatusOK, makeSampleResponse(t-t0, smp))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprint(w, s.metricsReg.Gather())
}

// streamRequest is the first (and only) message a WebSocket client sends.
type streamRequest struct {
	Axis  string  `json:"axis"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// streamHeader is sent before the samples.
type streamHeader struct {
	Plan planResponse `json:"plan"`
	Rate float64      `json:"rate"`
}

// handleWebSocket streams one move at the configured sample rate. The
// client sends a streamRequest; the server answers with a streamHeader
// followed by one sampleResponse per sample, ending with Done=true, then
// closes. A stream runs for the full move duration, so no new streams
// are accepted once Stop has been called.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.running.Load() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req streamRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.logger.WithError(err).Warn("bad stream request")
		return
	}
	a, err := s.checkedMove(req.Axis, req.Start, req.End)
	if err != nil {
		conn.WriteJSON(map[string]any{"error": err.Error()})
		return
	}

	mv := sampler.Move{Start: req.Start, End: req.End, Limits: a.Limits}
	if err := conn.WriteJSON(streamHeader{
		Plan: makePlanResponse(mv.Plan()),
		Rate: s.cfg.SampleRate,
	}); err != nil {
		return
	}

	s.activeStreams.Inc(nil)
	defer s.activeStreams.Dec(nil)
	s.logger.Info("streaming axis %s from %g to %g", a.Name, mv.Start, mv.End)

	// Stop sampling if the client goes away.
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	scfg := sampler.Config{Rate: s.cfg.SampleRate, Realtime: s.cfg.Realtime, RTPriority: 10}
	n, err := sampler.Run(ctx, scfg, mv, func(t float64, smp profile.Sample) bool {
		if err := conn.WriteJSON(makeSampleResponse(t, smp)); err != nil {
			return false
		}
		s.streamSamples.Inc(metrics.Labels{"axis": a.Name})
		return true
	}, s.logger)
	if err != nil && err != context.Canceled {
		s.logger.WithError(err).Warn("stream ended abnormally")
	}
	s.logger.Debug("stream finished after %d samples", n)
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
