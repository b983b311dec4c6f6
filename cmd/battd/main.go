package main

import (
	"flag"
	"log"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"battd/internal/bq24193"
	"battd/internal/max17050"
	"battd/internal/server"
)

func main() {
	busName := flag.String("bus", "", "I²C bus to use (default: first available)")
	port := flag.Int("port", 3000, "HTTP port")
	chargeCurrent := flag.Uint("charge-current", 0, "fast-charge current limit to apply at startup in mA, 0 leaves it unchanged")
	once := flag.Bool("once", false, "print status and exit")
	flag.Parse()

	log.Println("Starting battd...")

	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	bus, err := i2creg.Open(*busName)
	if err != nil {
		log.Fatalf("failed to open I2C: %v", err)
	}
	defer bus.Close()

	var charger server.ChargerClient
	bq, err := bq24193.NewBQ24193(bus)
	if err != nil {
		log.Printf("Failed to init BQ24193: %v", err)
	} else {
		charger = bq
		if *chargeCurrent != 0 {
			if err := bq.SetFastChargeCurrentLimit(uint32(*chargeCurrent)); err != nil {
				log.Printf("Failed to set charge current limit: %v", err)
			}
		}
	}

	var gauge server.GaugeClient
	mx, err := max17050.NewMAX17050(bus, nil)
	if err != nil {
		log.Printf("Failed to init MAX17050: %v", err)
	} else {
		gauge = mx
	}

	log.Printf("Hardware Initialized: BQ24193 (Addr: 0x%X), MAX17050 (Addr: 0x%X)", bq24193.Addr, max17050.Addr)

	if *once {
		printStatus(bq, mx)
		return
	}

	if err := server.Run(*port, charger, gauge); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func printStatus(bq *bq24193.BQ24193, mx *max17050.MAX17050) {
	if bq != nil {
		if s, err := bq.GetStatus(); err != nil {
			log.Printf("Error reading BQ24193: %v", err)
		} else {
			limit := physic.ElectricCurrent(s.LimitMilliA) * physic.MilliAmpere
			log.Printf("%s: %s, VBUS %s, power good %v, fast-charge limit %s", bq, s.Charge, s.VBus, s.PowerGood, limit)
		}
	}
	if mx != nil {
		if s, err := mx.GetStatus(); err != nil {
			log.Printf("Error reading MAX17050: %v", err)
		} else {
			log.Printf("%s: %.1f%% %s %s (avg %s) %s, %.0f/%.0fmAh", mx, s.SOC, s.Voltage, s.Current, s.AvgCurrent, s.Temp, s.RepCapMAh, s.FullCapMAh)
		}
	}
}
