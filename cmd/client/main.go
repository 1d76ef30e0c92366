package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/sealbid/sealbid/internal/chain"
	"github.com/sealbid/sealbid/internal/client/auth"
	"github.com/sealbid/sealbid/internal/client/content"
	"github.com/sealbid/sealbid/internal/client/envelope"
	"github.com/sealbid/sealbid/internal/client/keystore"
	"github.com/sealbid/sealbid/internal/client/offer"
	"github.com/sealbid/sealbid/internal/client/session"
	"github.com/sealbid/sealbid/internal/config"
	"github.com/sealbid/sealbid/internal/models"
	"github.com/sealbid/sealbid/internal/wallet"
)

var (
	version   string
	buildDate string
)

// walletFile is the on-disk form of the local wallet seed.
type walletFile struct {
	Seed string `json:"seed"`
}

// loadOrCreateWallet restores the wallet from path or generates and
// persists a fresh one.
func loadOrCreateWallet(path string) (*wallet.LocalWallet, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		var wf walletFile
		if err := json.Unmarshal(data, &wf); err != nil {
			return nil, fmt.Errorf("parse wallet file: %w", err)
		}
		seed, err := hex.DecodeString(wf.Seed)
		if err != nil {
			return nil, fmt.Errorf("decode wallet seed: %w", err)
		}
		return wallet.FromSeed(seed)
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	w, err := wallet.NewLocalWallet()
	if err != nil {
		return nil, err
	}
	data, err = json.Marshal(walletFile{Seed: hex.EncodeToString(w.Seed())})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("save wallet file: %w", err)
	}
	return w, nil
}

// promptOfferData collects the buyer's private offer fields.
func promptOfferData(scanner *bufio.Scanner) models.OfferData {
	data := models.OfferData{}
	fmt.Print("email: ")
	if scanner.Scan() {
		data["email"] = strings.TrimSpace(scanner.Text())
	}
	fmt.Print("shipping address: ")
	if scanner.Scan() {
		data["shippingAddress"] = strings.TrimSpace(scanner.Text())
	}
	return data
}

// repl runs the interactive shell loop for login, key custody and offer
// submission.
func repl(
	w *wallet.LocalWallet,
	gate *auth.Gate,
	keys *keystore.Store,
	flow *offer.Flow,
	sim *chain.Simulator,
) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("sealbid> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login, whoami, keys, mnemonic, submit <listing> <sellerKey> <qty> <priceWei>, offers <listing>, read <uri>, logout, exit")
		case "login":
			if _, err := gate.Login(ctx, w); err != nil {
				fmt.Println("Login failed:", err)
				continue
			}
			fmt.Println("Logged in as", w.Address())
		case "whoami":
			if gate.IsLoggedIn(ctx, w.Address()) {
				fmt.Println(w.Address())
			} else {
				fmt.Println("Not logged in")
			}
		case "keys":
			pair, err := keys.GetOrCreateKeyPair(ctx)
			if err != nil {
				fmt.Println("Key custody failed:", err)
				continue
			}
			fmt.Println("Encryption public key:", pair.PublicKeyHex())
		case "mnemonic":
			pair, err := keys.GetOrCreateKeyPair(ctx)
			if err != nil {
				fmt.Println("Key custody failed:", err)
				continue
			}
			words, err := keystore.ExportMnemonic(pair)
			if err != nil {
				fmt.Println("Export failed:", err)
				continue
			}
			fmt.Println(words)
		case "submit":
			if len(args) < 5 {
				fmt.Println("Usage: submit <listing> <sellerKey> <qty> <priceWei>")
				continue
			}
			qty, err := strconv.ParseInt(args[3], 10, 64)
			if err != nil {
				fmt.Println("Bad quantity:", args[3])
				continue
			}
			price, ok := new(big.Int).SetString(args[4], 10)
			if !ok {
				fmt.Println("Bad price:", args[4])
				continue
			}
			receipt, err := flow.Submit(ctx, offer.Request{
				Buyer:     w.Address(),
				Listing:   args[1],
				SellerKey: args[2],
				Quantity:  qty,
				PriceWei:  price,
				Data:      promptOfferData(scanner),
			})
			if err != nil {
				fmt.Println("Submission failed:", err)
				continue
			}
			fmt.Println("Offer submitted:", receipt.OfferAddress, "tx:", receipt.TxHash)
		case "offers":
			if len(args) < 2 {
				fmt.Println("Usage: offers <listing>")
				continue
			}
			offers, err := sim.Offers(ctx, args[1])
			if err != nil {
				fmt.Println("Lookup failed:", err)
				continue
			}
			for _, o := range offers {
				fmt.Printf("%s qty=%d price=%s data=%s\n", o.ID, o.Quantity, o.PriceWei, o.DataURI)
			}
		case "read":
			if len(args) < 2 {
				fmt.Println("Usage: read <uri>")
				continue
			}
			result := flow.ReadOffer(ctx, args[1])
			if result.State() != envelope.StateOk {
				fmt.Println("Offer data unavailable:", result.Err())
				continue
			}
			data, _ := result.Data()
			b, _ := json.MarshalIndent(data, "", "  ")
			fmt.Println(string(b))
		case "logout":
			if err := gate.Logout(w.Address()); err != nil {
				fmt.Println("Logout failed:", err)
				continue
			}
			fmt.Println("Logged out")
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// main loads configuration and wires the client components together.
func main() {
	var (
		configPath string
		showVer    bool
	)

	flag.StringVar(&configPath, "config", "client.yaml", "path to client config file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("sealbid Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	cfg, err := config.LoadClient(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	w, err := loadOrCreateWallet(cfg.WalletFile)
	if err != nil {
		log.Fatalf("init wallet: %v", err)
	}
	fmt.Println("Wallet address:", w.Address())

	sessions := session.NewStore(cfg.SessionFile)
	if err := sessions.Load(); err != nil {
		log.Fatalf("load session: %v", err)
	}

	gate := auth.NewGate(cfg.VaultURL, nil, sessions)
	keys := keystore.NewStore(cfg.VaultURL, nil, gate, w.Address())
	store := content.NewClient(cfg.ContentURL, cfg.MirrorURL, cfg.Gateway, nil, nil)
	sim := chain.NewSimulator()
	flow := offer.NewFlow(store, keys, sim, sim, nil, func(s offer.Stage) {
		fmt.Println(s + "...")
	})

	repl(w, gate, keys, flow, sim)
}
