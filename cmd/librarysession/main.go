package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/library-session/controller"
	"github.com/jrsteele09/library-session/internal/config"
	"github.com/jrsteele09/library-session/internal/logging"
	"github.com/jrsteele09/library-session/sessionclock"
	"github.com/rs/zerolog"
)

type options struct {
	email    string
	password string
	remember bool
	logout   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.email, "email", "", "login email (prompted when no session is stored)")
	flag.StringVar(&opts.password, "password", "", "login password")
	flag.BoolVar(&opts.remember, "remember", false, "remember me: use the long session policy")
	flag.BoolVar(&opts.logout, "logout", false, "end the stored session and exit")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run(opts options) (returnError error) {
	c := config.New()
	logger := logging.New(c.GetEnv(), c.GetLogLevel())

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	store, closeStore, err := openStore(c, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	term := newTerminal(os.Stdin, os.Stdout)
	clock := sessionclock.New(sessionclock.System(), c.GetWarningLead())
	ctrl, err := controller.New(store, clock,
		controller.WithLogger(logger),
		controller.WithDecider(newPromptDecider(term)),
		controller.WithDecisionTimeout(c.GetDecisionTimeout()),
	)
	if err != nil {
		return fmt.Errorf("controller.New: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.logout {
		ctrl.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	}

	if sess := ctrl.Hydrate(ctx); sess != nil {
		fmt.Printf("Welcome back %s (%s). Session expires at %s.\n",
			sess.Identity.DisplayName, sess.Identity.Role, sess.ExpiresAt.Format(time.Kitchen))
	} else {
		auth, err := newAuthenticator(c, logger)
		if err != nil {
			return err
		}
		email, password, err := credentials(ctx, opts, term)
		if err != nil {
			return err
		}
		sess, err := ctrl.SignIn(ctx, auth, email, password, opts.remember)
		if err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		fmt.Printf("Signed in as %s (%s). Session expires at %s.\n",
			sess.Identity.DisplayName, sess.Identity.Role, sess.ExpiresAt.Format(time.Kitchen))
	}

	return waitForSessionEnd(ctx, ctrl, logger)
}

// waitForSessionEnd blocks until the session ends or a stop signal arrives.
func waitForSessionEnd(ctx context.Context, ctrl *controller.Controller, logger zerolog.Logger) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopped, session kept for next run")
			return nil
		case <-ticker.C:
			if ctrl.CurrentSession() == nil {
				fmt.Println("Session ended. Please sign in again.")
				return nil
			}
		}
	}
}

func credentials(ctx context.Context, opts options, term *terminal) (string, string, error) {
	email, password := opts.email, opts.password
	var err error
	if email == "" {
		if email, err = term.ask(ctx, "Email: "); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = term.ask(ctx, "Password: "); err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
