package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/corvidchess/corvid/internal/engine"
	"github.com/corvidchess/corvid/internal/uci"
)

// defaultNet is the filename Corvid looks for when auto-loading NNUE
// weights from its standard search locations.
const defaultNet = "corvid.nnue"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng := engine.NewEngine(64)

	if err := autoLoadNNUE(eng); err != nil {
		log.Printf("NNUE not loaded: %v (using classical evaluation)", err)
	}

	protocol := uci.New(eng)
	protocol.Run()
}

// autoLoadNNUE attempts to load NNUE weights from standard locations.
func autoLoadNNUE(eng *engine.Engine) error {
	searchPaths := []string{
		filepath.Join(getHomeDir(), ".corvid", "nnue"),
		"./nnue",
		".",
	}

	for _, dir := range searchPaths {
		path := filepath.Join(dir, defaultNet)
		if !fileExists(path) {
			continue
		}
		if err := eng.LoadNNUE(path); err != nil {
			log.Printf("Failed to load NNUE from %s: %v", path, err)
			continue
		}
		eng.SetUseNNUE(true)
		log.Printf("NNUE loaded from %s", path)
		return nil
	}

	return os.ErrNotExist
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
