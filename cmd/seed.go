package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/adarshkumar790/multisender/internal/config"
	"github.com/adarshkumar790/multisender/internal/db"
	"github.com/adarshkumar790/multisender/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo accounts, packages and bootstrap settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// 2) connect MySQL
		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo accounts...")

		if err := seedAccounts(sqlDB, cfg); err != nil {
			return err
		}
		if err := seedSettings(sqlDB, cfg); err != nil {
			return err
		}
		if err := seedPackages(sqlDB); err != nil {
			return err
		}
		if err := ensureWallets(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

// seedAccounts inserts deterministic demo accounts plus the bootstrap owner
// and fee receiver (idempotent).
func seedAccounts(dbx *sqlx.DB, cfg config.Config) error {
	owner, ok := model.ParseAccount(cfg.Bootstrap.Owner)
	if !ok {
		return fmt.Errorf("bootstrap.owner is not a valid address: %q", cfg.Bootstrap.Owner)
	}
	feeReceiver, ok := model.ParseAccount(cfg.Bootstrap.FeeReceiver)
	if !ok {
		return fmt.Errorf("bootstrap.fee_receiver is not a valid address: %q", cfg.Bootstrap.FeeReceiver)
	}

	accounts := []model.RegisteredAccount{
		{
			Address:      owner,
			Name:         "Operator",
			APIKey:       "11111111111111111111111111111111",
			Status:       "active",
			RateLimitRPS: intptr(100),
		},
		{
			Address:      feeReceiver,
			Name:         "Treasury",
			APIKey:       "22222222222222222222222222222222",
			Status:       "active",
			RateLimitRPS: intptr(20),
		},
		{
			Address:      "0x00000000000000000000000000000000000000aa",
			Name:         "Acme Corp",
			APIKey:       "33333333333333333333333333333333",
			Status:       "active",
			RateLimitRPS: intptr(50),
		},
		{
			Address:      "0x00000000000000000000000000000000000000bb",
			Name:         "Beta Testers",
			APIKey:       "44444444444444444444444444444444",
			Status:       "active",
			RateLimitRPS: intptr(5),
		},
		{
			Address:      "0x00000000000000000000000000000000000000cc",
			Name:         "Suspended Inc",
			APIKey:       "55555555555555555555555555555555",
			Status:       "suspended",
			RateLimitRPS: nil,
		},
	}

	// idempotent upsert based on api_key (UNIQUE)
	const q = `
INSERT INTO accounts
    (address, name, api_key, status, rate_limit_rps, created_at, updated_at)
VALUES
    (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    name           = VALUES(name),
    status         = VALUES(status),
    rate_limit_rps = VALUES(rate_limit_rps),
    updated_at     = VALUES(updated_at)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	for _, a := range accounts {
		if _, err := tx.Exec(q, a.Address, a.Name, a.APIKey, a.Status, a.RateLimitRPS, now, now); err != nil {
			return fmt.Errorf("insert account %q: %w", a.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit accounts: %w", err)
	}
	return nil
}

// seedSettings writes the singleton settings row from bootstrap config.
// Existing owner/fee parameters are left alone; changes after bootstrap go
// through the admin API.
func seedSettings(dbx *sqlx.DB, cfg config.Config) error {
	const q = `
INSERT INTO engine_settings
    (id, owner, fee_receiver, per_recipient_fee, minimum_fee, updated_at)
VALUES
    (1, ?, ?, ?, ?, NOW())
ON DUPLICATE KEY UPDATE id = id
`
	owner, _ := model.ParseAccount(cfg.Bootstrap.Owner)
	feeReceiver, _ := model.ParseAccount(cfg.Bootstrap.FeeReceiver)
	if _, err := dbx.Exec(q, owner, feeReceiver, cfg.Bootstrap.PerRecipientFee, cfg.Bootstrap.MinimumFee); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}

// seedPackages inserts a small demo catalog (idempotent overwrite).
func seedPackages(dbx *sqlx.DB) error {
	packages := []model.VipPackage{
		{ID: 1, Price: 1000, ValiditySecs: 30 * 24 * 3600},
		{ID: 2, Price: 2500, ValiditySecs: 90 * 24 * 3600},
		{ID: 3, Price: 8000, ValiditySecs: 365 * 24 * 3600},
	}

	const q = `
INSERT INTO vip_packages (id, price, validity_secs, updated_at)
VALUES (?, ?, ?, NOW())
ON DUPLICATE KEY UPDATE
    price         = VALUES(price),
    validity_secs = VALUES(validity_secs),
    updated_at    = VALUES(updated_at)
`
	for _, p := range packages {
		if _, err := dbx.Exec(q, p.ID, p.Price, p.ValiditySecs); err != nil {
			return fmt.Errorf("insert package %d: %w", p.ID, err)
		}
	}
	return nil
}

// ensureWallets creates wallet_accounts rows for accounts missing one.
func ensureWallets(dbx *sqlx.DB) error {
	const q = `
INSERT INTO wallet_accounts (account, balance, created_at, updated_at)
SELECT a.address, 0, NOW(), NOW()
FROM accounts a
LEFT JOIN wallet_accounts w ON w.account = a.address
WHERE w.account IS NULL
`
	if _, err := dbx.Exec(q); err != nil {
		return fmt.Errorf("ensure wallets: %w", err)
	}
	return nil
}

func intptr(i int) *int { return &i }
