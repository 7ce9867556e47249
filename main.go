package main

import (
	"fmt"
	"os"

	"github.com/HalflingHelper/hash-tables/hashtable"
	log "github.com/sirupsen/logrus"
)

func main() {
	args := os.Args[1:]

	if len(args) == 0 || args[0] == "demo" {
		runDemo()
		return
	}

	switch args[0] {
	case "serve":
		envFile := ""
		if len(args) > 1 {
			envFile = args[1]
		}
		if err := serve(envFile); err != nil {
			log.Fatal(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [demo | serve [envFile]]\n", os.Args[0])
		os.Exit(2)
	}
}

func runDemo() {
	ht := hashtable.New()
	defer ht.Destroy()

	ht.Insert("first", "1")
	ht.Insert("second", "2")
	ht.Insert("third", "3")
	ht.Insert("fourth", "4")

	if v, ok := ht.Search("second"); ok {
		fmt.Printf("second => %s\n", v)
	}
	printTable(ht)
}

func printTable(ht *hashtable.HashTable) {
	fmt.Printf("size=%d count=%d\n", ht.Cap(), ht.Len())
	for k, v := range ht.All() {
		fmt.Printf("%s: %s\n", k, v)
	}
}

func serve(envFile string) error {
	cfg, err := LoadConfig(envFile)
	if err != nil {
		return err
	}
	cfg.ApplyLogLevel()

	engine := CreateEngine(cfg.Name, cfg)
	defer engine.Close()

	s := InitServer(cfg, engine)
	return s.Start()
}
