// Package config provides configuration parsing for the mvi CLI.
//
// The configuration is stored in mvi.json. Every field is optional; missing
// fields take the defaults returned by New.
//
// # Configuration File Structure
//
//	{
//	  "inspector": {
//	    "host": "localhost",
//	    "port": 7070
//	  },
//	  "events": {
//	    "capacity": 0,
//	    "overflow": "drop-oldest"
//	  },
//	  "lifecycle": {
//	    "minState": "started"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "mvi"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrNew("mvi.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Logger(os.Stderr)
//	c := mvi.New[State, Event](sc, State{}, cfg.ContainerOptions()...)
package config
