// Command worldclient connects to a world server realm, performs the
// header-encrypted session handshake, and runs the periodic scheduler
// and opcode dispatch loop until interrupted. Entry point wiring follows
// cmd/paysys/main.go's shape: load config, construct collaborators,
// start in a goroutine, wait on a signal, shut down.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"worldclient/internal/bignum"
	"worldclient/internal/cache"
	"worldclient/internal/codec"
	"worldclient/internal/config"
	"worldclient/internal/opcodes"
	"worldclient/internal/session"
)

func main() {
	app := cli.NewApp()
	app.Name = "worldclient"
	app.Usage = "world session protocol client"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Value: "worldclient.ini",
			Usage: "path to the INI configuration file",
		},
		cli.StringFlag{
			Name:  "realm",
			Usage: "override the World.RealmAddress setting (host:port)",
		},
		cli.StringFlag{
			Name:  "accountname",
			Usage: "account name sent in CMSG_AUTH_SESSION",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("[Main] %v", err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	realmAddress := cfg.World.RealmAddress
	if override := c.String("realm"); override != "" {
		realmAddress = override
	}

	var names *cache.NameCache
	if cfg.Cache.DBName != "" {
		names, err = cache.Open(cache.Config{
			Host:     cfg.Cache.Host,
			Port:     cfg.Cache.Port,
			User:     cfg.Cache.UserName,
			Password: cfg.Cache.Password,
			DBName:   cfg.Cache.DBName,
		})
		if err != nil {
			log.Printf("[Main] name cache unavailable, continuing without it: %v", err)
			names = cache.NewInMemory()
		}
	} else {
		names = cache.NewInMemory()
	}
	defer names.Close()

	sess := session.New(names, session.Periods{
		KeepAlive: cfg.Session.KeepAlivePeriod,
		Ping:      cfg.Session.PingPeriod,
		Save:      cfg.Session.SavePeriod,
	}, log.Default())

	sessionKey, err := bignum.NewRandom(160)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keyBytes := sessionKey.AsBytes(20, true)
	if err := sess.Enter(ctx, realmAddress, keyBytes); err != nil {
		return err
	}
	defer sess.Disconnect()

	sendAuthSession(sess, c.String("accountname"), keyBytes)

	log.Printf("[Main] connected to %s, running until interrupted", realmAddress)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Println("[Main] shutting down")
	return nil
}

// sendAuthSession builds and sends CMSG_AUTH_SESSION. Its body format
// beyond the account name and session key is out of scope per spec.md
// §1; this sends just enough to exercise the lazy cipher-arming path in
// internal/wiresock (the arm happens the moment this specific opcode
// finishes writing to the socket).
func sendAuthSession(sess *session.Session, accountName string, sessionKey []byte) {
	pkt := codec.NewWorldPacket(uint32(opcodes.CMSGAuthSession), len(accountName)+len(sessionKey)+8)
	if err := pkt.WriteString(accountName); err != nil {
		log.Printf("[Main] building CMSG_AUTH_SESSION: %v", err)
		return
	}
	if err := pkt.WriteBytes(sessionKey); err != nil {
		log.Printf("[Main] building CMSG_AUTH_SESSION: %v", err)
		return
	}
	sess.SendPacket(pkt)
}
