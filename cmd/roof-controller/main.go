// Command roof-controller drives the observatory's roll-off roof: it
// accepts OPEN/CLOSE/ABORT/QUERY from the host over a serial link,
// sequences the motor-direction relays, and enforces the park interlock
// and motion-timeout safety cutout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/roof-controller/internal/gpio"
	"github.com/sweeney/roof-controller/internal/led"
	"github.com/sweeney/roof-controller/internal/link"
	"github.com/sweeney/roof-controller/internal/mqtt"
	"github.com/sweeney/roof-controller/internal/relay"
	"github.com/sweeney/roof-controller/internal/roof"
	"github.com/sweeney/roof-controller/internal/status"
	"github.com/sweeney/roof-controller/internal/web"
)

func main() {
	poll := flag.Duration("poll", 250*time.Millisecond, "Sensor polling interval")
	device := flag.String("device", "/dev/ttyUSB0", "Host serial device")
	baud := flag.Int("baud", 9600, "Host serial baud rate")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	printState := flag.Bool("print-state", false, "Print current sensor readings and exit")

	flag.Parse()

	if err := run(*poll, *device, *baud, *broker, *heartbeat, *httpAddr, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll time.Duration, device string, baud int, broker string, heartbeat time.Duration, httpAddr string, printState bool) error {
	// Initialize GPIO
	port, err := gpio.NewRealPort()
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer port.Close()

	// Print state mode
	if printState {
		r, err := port.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("open_limit=%v close_limit=%v ra_parked=%v dec_parked=%v\n",
			r.OpenLimit, r.CloseLimit, r.RAParked, r.DecParked)
		return nil
	}

	// Open the host command link
	hostLink, err := link.OpenSerial(device, baud)
	if err != nil {
		return fmt.Errorf("open host link: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := hostLink.Run(ctx); err != nil {
			log.Printf("host link error: %v", err)
		}
	}()

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Device:      device,
		Baud:        baud,
		Broker:      broker,
		HTTPAddr:    httpAddr,
	})

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: poll=%v device=%s baud=%d broker=%s heartbeat=%v", poll, device, baud, broker, heartbeat)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	driver := relay.New(port)
	blinker := led.NewBlinker(port)

	return runLoop(port, hostLink.Commands(), hostLink, driver, blinker, publisher, publisher, tracker, heartbeat, time.Now, ticker.C, sigCh)
}

// replier sends reply words back to the host.
type replier interface {
	Reply(r roof.Reply) error
}

func runLoop(sensors gpio.Reader, cmds <-chan roof.Command, rep replier, driver *relay.Driver, blinker *led.Blinker, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	ctrl := roof.NewController()
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			// Never exit with a coil driven.
			if err := driver.Stop(); err != nil {
				log.Printf("relay stop on shutdown: %v", err)
			}

			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case t := <-tick:
			sample, err := sensors.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}
			in := roof.Input{Readings: toRoofReadings(sample), Time: t}

			// Commands queued since the last cycle are applied before
			// this cycle's tick, against the same fresh sample.
			var events []roof.Event
		drain:
			for {
				select {
				case cmd, ok := <-cmds:
					if !ok {
						// Link reader exited; keep controlling the roof
						// but stop selecting on the dead channel.
						cmds = nil
						break drain
					}
					log.Printf("command: %s", cmd)
					reply, cmdEvents := ctrl.Apply(cmd, in)
					events = append(events, cmdEvents...)
					if reply != "" {
						if err := rep.Reply(reply); err != nil {
							log.Printf("reply error: %v", err)
						}
					}
				default:
					break drain
				}
			}

			action, tickEvents := ctrl.Tick(in)
			events = append(events, tickEvents...)

			switch action {
			case roof.ActionDriveOpen:
				if epoch, err := driver.DriveOpen(); err != nil {
					log.Printf("drive open: %v", err)
				} else {
					log.Printf("open relay pulsed at %s", epoch.Format(time.RFC3339))
				}
			case roof.ActionDriveClose:
				if epoch, err := driver.DriveClose(); err != nil {
					log.Printf("drive close: %v", err)
				} else {
					log.Printf("close relay pulsed at %s", epoch.Format(time.RFC3339))
				}
			case roof.ActionStop:
				if err := driver.Stop(); err != nil {
					log.Printf("relay stop: %v", err)
				}
			}

			for _, event := range events {
				log.Printf("event: %s (state=%s)", event.Type, event.State)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			// Update status tracker for HTTP/websocket consumers
			if tracker != nil {
				tracker.Update(ctrl.State(), in.Readings, ctrl.Counts())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			// Check for heartbeat
			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			if blinker != nil {
				if err := blinker.Update(in.Readings.OpenLimit, in.Readings.CloseLimit, t); err != nil {
					log.Printf("led error: %v", err)
				}
			}
		}
	}
}

func toRoofReadings(r gpio.Readings) roof.Readings {
	return roof.Readings{
		OpenLimit:  r.OpenLimit,
		CloseLimit: r.CloseLimit,
		RAParked:   r.RAParked,
		DecParked:  r.DecParked,
	}
}
