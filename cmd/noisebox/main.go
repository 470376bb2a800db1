package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agusx1211/noisebox/internal/audio"
	"github.com/agusx1211/noisebox/internal/config"
	"github.com/agusx1211/noisebox/internal/logging"
	"github.com/agusx1211/noisebox/internal/mixer"
	"github.com/agusx1211/noisebox/internal/mqtt"
	"github.com/agusx1211/noisebox/internal/noise"
	"github.com/agusx1211/noisebox/internal/session"
	"github.com/agusx1211/noisebox/internal/state"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "noisebox",
	Short: "Five-color noise machine with a 3-band EQ and MQTT remote control",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		return run(cfg)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	engine := noise.NewEngine(noise.White, noise.Options{
		SampleRate:      cfg.SampleRate,
		PrefetchSeconds: cfg.PrefetchSeconds,
		RefillInterval:  cfg.RefillInterval,
		RefillChunk:     cfg.RefillChunk,
		Seed:            time.Now().UnixNano(),
	})
	m := mixer.NewMixer(cfg.SampleRate, engine)
	s := session.New(m)

	restoreState(m, cfg.StateFile, log)

	player, err := audio.NewPlayer(cfg.SampleRate, cfg.BlockSize)
	if err != nil {
		return fmt.Errorf("creating audio player: %w", err)
	}
	defer player.Close()

	commandChan := make(chan mqtt.Command, 100)

	mqttClient, err := mqtt.NewClient(
		cfg.MQTT.Broker,
		cfg.MQTT.Port,
		cfg.MQTT.User,
		cfg.MQTT.Password,
		cfg.MQTT.Topic,
		m,
		s,
		commandChan,
		log,
	)
	if err != nil {
		return fmt.Errorf("creating MQTT client: %w", err)
	}
	defer mqttClient.Close()

	player.Start(m.Mix)
	log.Info("playback started",
		zap.Int("sample_rate", cfg.SampleRate),
		zap.Int("block_size", cfg.BlockSize),
		zap.String("kind", string(m.GetKind())))

	go reseedLoop(m, log)
	go processCommands(m, s, commandChan, mqttClient, cfg.StateFile, log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	return nil
}

// reseedLoop periodically replaces the engine's RNG seed with hardware
// entropy so long-running sessions do not replay one PRNG stream forever.
func reseedLoop(m *mixer.Mixer, log *zap.Logger) {
	reseed(m, log)
	for range time.Tick(10 * time.Minute) {
		reseed(m, log)
	}
}

func reseed(m *mixer.Mixer, log *zap.Logger) {
	f, err := os.Open("/dev/random")
	if err != nil {
		log.Warn("opening /dev/random", zap.Error(err))
		return
	}
	defer f.Close()

	var seed int64
	if err := binary.Read(f, binary.LittleEndian, &seed); err != nil {
		log.Warn("reading /dev/random", zap.Error(err))
		return
	}
	m.ReseedRNG(seed)
	log.Debug("reseeded RNG from /dev/random")
}

func processCommands(m *mixer.Mixer, s *session.Session, cmdChan <-chan mqtt.Command, mqttClient *mqtt.Client, stateFile string, log *zap.Logger) {
	stateTicker := time.NewTicker(2 * time.Second)
	defer stateTicker.Stop()

	for {
		select {
		case cmd, ok := <-cmdChan:
			if !ok {
				return
			}
			applyCommand(m, s, cmd)
			saveState(m, stateFile, log)
			mqttClient.PublishState()
			mqttClient.PublishMetadata()
		case <-stateTicker.C:
			mqttClient.PublishState()
		}
	}
}

func applyCommand(m *mixer.Mixer, s *session.Session, cmd mqtt.Command) {
	switch cmd.Action {
	case mqtt.ActionPowerOn, mqtt.ActionPlay:
		s.Play()
	case mqtt.ActionPowerOff, mqtt.ActionPause:
		s.Pause()
	case mqtt.ActionStop:
		s.Stop()
	case mqtt.ActionVolume:
		m.SetMasterVolume(cmd.Value)
	case mqtt.ActionKind:
		s.Select(cmd.Kind)
	case mqtt.ActionEQLow:
		m.SetLow(cmd.Value)
	case mqtt.ActionEQMid:
		m.SetMid(cmd.Value)
	case mqtt.ActionEQHigh:
		m.SetHigh(cmd.Value)
	case mqtt.ActionNext:
		s.Next()
	case mqtt.ActionPrevious:
		s.Previous()
	}
}

func saveState(m *mixer.Mixer, path string, log *zap.Logger) {
	prefs := state.Preferences{
		NoiseType: string(m.GetKind()),
		EQ: state.EQ{
			Low:  m.GetLow(),
			Mid:  m.GetMid(),
			High: m.GetHigh(),
		},
		Volume: m.GetMasterVolume(),
		Power:  m.GetPower(),
	}
	if err := state.Save(path, prefs); err != nil {
		log.Warn("saving state", zap.Error(err))
	}
}

func restoreState(m *mixer.Mixer, path string, log *zap.Logger) {
	prefs, ok, err := state.Load(path)
	if err != nil {
		log.Warn("loading state", zap.Error(err))
		return
	}
	if !ok {
		return
	}

	m.SetKind(noise.ParseKind(prefs.NoiseType))
	m.SetLow(prefs.EQ.Low)
	m.SetMid(prefs.EQ.Mid)
	m.SetHigh(prefs.EQ.High)
	m.SetMasterVolume(prefs.Volume)
	m.SetPower(prefs.Power)

	log.Info("restored state",
		zap.String("kind", prefs.NoiseType),
		zap.Bool("power", prefs.Power),
		zap.Float64("volume", prefs.Volume))
}
