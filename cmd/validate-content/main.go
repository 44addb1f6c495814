package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kestrel-games/skirmish/internal/game/board"
	"github.com/kestrel-games/skirmish/internal/game/terrain"
	"github.com/kestrel-games/skirmish/internal/game/unit"
	"github.com/kestrel-games/skirmish/internal/scripting"
)

func main() {
	terrainFile := flag.String("terrain", "content/terrain.yaml", "path to terrain definition file")
	mapFile := flag.String("map", "content/maps/crossing.yaml", "path to map file")
	archetypesDir := flag.String("archetypes", "content/archetypes", "path to archetype directory")
	scriptsDir := flag.String("scripts", "", "optional path to lua script directory")
	flag.Parse()

	start := time.Now()
	failed := false
	fail := func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
		failed = true
	}

	catalog, err := terrain.LoadCatalogFromFile(*terrainFile)
	if err != nil {
		fail("terrain: %v", err)
	} else {
		fmt.Printf("terrain: %d types ok\n", catalog.Len())
	}

	b, err := board.LoadFromFile(*mapFile)
	if err != nil {
		fail("map: %v", err)
	} else {
		if catalog != nil {
			if err := b.ValidateTerrain(catalog); err != nil {
				fail("map: %v", err)
			}
		}
		fmt.Printf("map: %q %dx%d ok\n", b.Name, b.Width(), b.Height())
	}

	archetypes, err := unit.LoadArchetypesFromDir(*archetypesDir)
	if err != nil {
		fail("archetypes: %v", err)
	} else {
		fmt.Printf("archetypes: %d definitions ok\n", len(archetypes))
	}

	if *scriptsDir != "" {
		hooks := scripting.NewHooks(zap.NewNop(), scripting.DefaultInstructionLimit)
		defer hooks.Close()
		if err := hooks.LoadDir(*scriptsDir); err != nil {
			fail("scripts: %v", err)
		} else {
			fmt.Println("scripts: ok")
		}
	}

	if failed {
		os.Exit(1)
	}
	fmt.Printf("validation complete in %s\n", time.Since(start).Round(time.Millisecond))
}
