package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/matt-g-everett/ledreel/api"
	"github.com/matt-g-everett/ledreel/clock"
	"github.com/matt-g-everett/ledreel/stream"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Controller *stream.Controller
	Control    *stream.Control
	Streamer   *stream.Streamer
	Api        *api.Api
}

func newApp(config stream.Config) (*app, error) {
	a := new(app)
	a.Config = config

	playlist := make([]stream.Animation, 0, len(config.Animations))
	for _, ac := range config.Animations {
		anim, err := stream.BuildAnimation(ac, config.Stream.Pixels)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded animation %q: %d frames of %vms (repeat=%v)",
			ac.Name, ac.Frames, ac.FrameDurationMs, ac.Repeat)
		logFinish(anim)
		playlist = append(playlist, anim)
	}

	a.Controller = stream.NewController(playlist,
		secs(config.Stream.CycleSecs), secs(config.Stream.TransitionSecs))

	options := mqtt.NewClientOptions().
		AddBroker(config.Mqtt.URL).
		SetClientID(config.Mqtt.ClientID + "-" + uuid.New().String()).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	a.Control = stream.NewControl(config, a.Client, a.Controller)
	a.Streamer = stream.NewStreamer(config, stream.NewMQTTPublisher(a.Client), a.Controller,
		clock.NewFramedClock(clock.NewStopwatchClock()))
	a.Api = api.NewApi(config, a.Controller)
	a.Streamer.OnStatus(a.Api.Broadcast)

	return a, nil
}

// logFinish notes when a non-repeating animation shows its final frame.
func logFinish(anim *stream.FrameAnimation) {
	anim.OnDisplay(func(index int, f *stream.Frame) {
		s := anim.Status()
		if !s.Repeat && index == s.FrameCount-1 {
			log.Printf("Animation %q reached its final frame after %d frames", s.Animation, s.FramesProcessed)
		}
	})
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	if err := a.Control.Subscribe(); err != nil {
		log.Printf("Subscribing to control topic: %v", err)
	}
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to %s: %w", a.Config.Mqtt.URL, token.Error())
	}
	defer a.Client.Disconnect(250)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.Controller.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.Streamer.Run(ctx)
	}()

	var apiErr error
	if a.Config.API.Addr != "" {
		if apiErr = a.Api.Serve(ctx); apiErr != nil {
			cancel()
		}
	}

	wg.Wait()
	a.Api.Close()
	log.Printf("Streamed with %d late frames", a.Streamer.LateFrames())
	if apiErr != nil {
		return fmt.Errorf("api server: %w", apiErr)
	}
	return nil
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)
	mqtt.WARN = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	config, err := stream.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Reading config: %v", err)
	}
	log.Printf("Config: %d animations, %d pixels at %vfps", len(config.Animations), config.Stream.Pixels, config.Stream.FrameRate)

	a, err := newApp(config)
	if err != nil {
		log.Fatalf("Building animations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		log.Fatalf("Running: %v", err)
	}
	log.Println("Stopped")
}
