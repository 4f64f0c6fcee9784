/*
zmecquotient builds the zero-reward end-component quotient of a Markov
Decision Process and reports what it found: the number of ZMECs collapsed,
the resulting quotient's size, and (with -lift) a demonstration of lifting
a trivial quotient-level scheduler back onto the original model.

This binary operates on a small built-in demonstration model (see
demoModel) rather than reading a PRISM-style model file from disk — model
parsing is explicitly out of scope (see SPEC_FULL.md's Non-goals). It
exists to exercise the zmec package end to end and, with -serve, to host
the construction's diagnostic event log over a websocket for local
inspection.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/niceyeti/zmecquotient/bitset"
	"github.com/niceyeti/zmecquotient/internal/diag"
	"github.com/niceyeti/zmecquotient/internal/inspector"
	"github.com/niceyeti/zmecquotient/mdp"
	"github.com/niceyeti/zmecquotient/zmec"
)

var (
	configPath *string
	serve      *bool
	addr       *string
	doLift     *bool
)

func init() {
	configPath = flag.String("config", "", "path to a zmec BuildOptions yaml file (optional)")
	serve = flag.Bool("serve", false, "serve the construction event log over a websocket")
	addr = flag.String("addr", ":8080", "address to serve on, when -serve is set")
	doLift = flag.Bool("lift", false, "demonstrate lifting a trivial strategy through the quotient")
	flag.Parse()
}

// demoModel returns a small MDP exhibiting two sibling ZMECs with a shared
// positive-reward exit: states {0,1} and {2,3} each form a zero-reward end
// component, both
// reachable from 4 and both able to exit to the positive-reward sink 5.
func demoModel() (*mdp.Explicit, *mdp.ExplicitRewards, error) {
	b := mdp.NewExplicitBuilder(6)
	b.AddChoice(0, mdp.Successor{Target: 1, Prob: 1})
	b.AddChoice(1, mdp.Successor{Target: 0, Prob: 1})
	b.AddChoice(1, mdp.Successor{Target: 5, Prob: 1}) // leaving choice
	b.AddChoice(2, mdp.Successor{Target: 3, Prob: 1})
	b.AddChoice(3, mdp.Successor{Target: 2, Prob: 1})
	b.AddChoice(3, mdp.Successor{Target: 5, Prob: 1}) // leaving choice
	b.AddChoice(4, mdp.Successor{Target: 0, Prob: 1})
	b.AddChoice(4, mdp.Successor{Target: 2, Prob: 1})
	b.AddChoice(5, mdp.Successor{Target: 5, Prob: 1})

	m, err := b.Build(bitset.FromSlice(6, []int{4}))
	if err != nil {
		return nil, nil, err
	}

	rew := mdp.NewExplicitRewards(6)
	rew.SetStateReward(5, 1)

	return m, rew, nil
}

func run() error {
	opts := zmec.BuildOptions{}
	if *configPath != "" {
		var err error
		if opts, err = zmec.LoadOptions(*configPath); err != nil {
			return fmt.Errorf("loading options: %w", err)
		}
	}

	var sink *diag.ChanSink
	if *serve {
		sink = diag.NewChanSink(64)
		opts.Diagnostics = sink
	}

	m, rew, err := demoModel()
	if err != nil {
		return fmt.Errorf("building demo model: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *serve {
		insp := inspector.New(*addr, sink, opts.Logger)
		go func() {
			if serveErr := insp.Serve(ctx); serveErr != nil {
				fmt.Fprintln(os.Stderr, serveErr)
			}
		}()
		fmt.Printf("inspector listening on %s\n", *addr)
	}

	quot, err := zmec.Build(m, nil, rew, opts)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if quot == nil {
		fmt.Println("no zero-reward end components found; quotient is unnecessary")
		return nil
	}
	defer quot.Close()

	fmt.Printf("collapsed %d zero-reward end component(s) into a %d-state quotient\n",
		quot.NumberOfZMECs(), quot.Model().NumStates())

	if *doLift {
		strat := make([]int, quot.Model().NumStates())
		for s := range strat {
			strat[s] = zmec.SentinelUnknown
		}
		// Every state with a quotient choice takes its first one (choice 0).
		for s := 0; s < quot.Model().NumStates(); s++ {
			if quot.Model().NumChoices(s) > 0 {
				strat[s] = 0
			}
		}
		if err := quot.LiftStrategy(strat); err != nil {
			return fmt.Errorf("lift: %w", err)
		}
		fmt.Printf("lifted strategy: %v\n", strat)
	}

	if *serve {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt)
		<-stop
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
