package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"periph.io/x/conn/v3/physic"

	"battd/internal/bq24193"
	"battd/internal/max17050"
)

type ChargerClient interface {
	GetStatus() (*bq24193.Status, error)
	FastChargeCurrentLimit() (uint32, error)
	SetFastChargeCurrentLimit(ma uint32) error
}

type GaugeClient interface {
	GetStatus() (*max17050.Status, error)
}

type BatteryResponse struct {
	Level              int     `json:"sensor.battery_level"`
	Voltage            float64 `json:"sensor.battery_voltage"`
	Current            int64   `json:"sensor.battery_current"`
	State              string  `json:"sensor.battery_state"`
	IsCharging         bool    `json:"sensor.is_charging"`
	ChargeCurrentLimit uint32  `json:"sensor.charge_current_limit"`
}

// ChargeCurrent is the body of the /charge-current endpoints.
type ChargeCurrent struct {
	Milliamps uint32 `json:"milliamps"`
}

type Server struct {
	bq  ChargerClient
	max GaugeClient
}

func Run(port int, bq ChargerClient, max GaugeClient) error {
	s := &Server{
		bq:  bq,
		max: max,
	}

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("Listening on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.rootHandler)
	mux.HandleFunc("GET /charge-current", s.getChargeCurrentHandler)
	mux.HandleFunc("PUT /charge-current", s.setChargeCurrentHandler)
	return mux
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	resp := BatteryResponse{
		State: "Discharging", // Default assumption if we can't read anything
	}

	var bqStatus *bq24193.Status
	if s.bq != nil {
		var err error
		bqStatus, err = s.bq.GetStatus()
		if err != nil {
			log.Printf("Error reading BQ24193: %v", err)
		}
	}

	var maxStatus *max17050.Status
	if s.max != nil {
		var err error
		maxStatus, err = s.max.GetStatus()
		if err != nil {
			log.Printf("Error reading MAX17050: %v", err)
		}
	}

	if maxStatus != nil {
		resp.Level = int(maxStatus.SOC)
		resp.Voltage = float64(maxStatus.Voltage) / float64(physic.Volt)
		resp.Current = int64(maxStatus.Current / physic.MilliAmpere)
	}

	if bqStatus != nil {
		resp.ChargeCurrentLimit = bqStatus.LimitMilliA
		switch bqStatus.Charge {
		case bq24193.ChargeDone:
			resp.State = "Full"
		case bq24193.FastCharging, bq24193.PreCharge:
			resp.State = "Charging"
		case bq24193.NotCharging:
			if bqStatus.PowerGood {
				resp.State = "Not Charging"
			} else {
				resp.State = "Discharging"
			}
		}
	}

	resp.IsCharging = (resp.State == "Charging")

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getChargeCurrentHandler(w http.ResponseWriter, r *http.Request) {
	if s.bq == nil {
		http.Error(w, "charger unavailable", http.StatusServiceUnavailable)
		return
	}
	ma, err := s.bq.FastChargeCurrentLimit()
	if err != nil {
		log.Printf("Error reading charge current limit: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, ChargeCurrent{Milliamps: ma})
}

// Requests out of range are capped by the charger encoding, and the response
// carries the value read back after quantisation.
func (s *Server) setChargeCurrentHandler(w http.ResponseWriter, r *http.Request) {
	if s.bq == nil {
		http.Error(w, "charger unavailable", http.StatusServiceUnavailable)
		return
	}
	var req ChargeCurrent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.bq.SetFastChargeCurrentLimit(req.Milliamps); err != nil {
		log.Printf("Error writing charge current limit: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	ma, err := s.bq.FastChargeCurrentLimit()
	if err != nil {
		log.Printf("Error reading charge current limit: %v", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	log.Printf("Charge current limit set to %dmA (requested %dmA)", ma, req.Milliamps)
	writeJSON(w, http.StatusOK, ChargeCurrent{Milliamps: ma})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
