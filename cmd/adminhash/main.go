package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gerakita/busadmin/pkg"
)

// small helper to (re)set an admin password: prints the bcrypt hash and
// the SQL to apply it
func main() {
	email := flag.String("email", "admin@gerakita.com", "admin account email")
	password := flag.String("password", "", "plaintext password to hash")
	flag.Parse()

	if *password == "" {
		fmt.Println("password not set, use -password")
		os.Exit(1)
	}

	hash, err := pkg.HashPassword(*password)
	if err != nil {
		fmt.Printf("failed to hash password: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("bcrypt hash:\n%s\n\n", hash)
	fmt.Printf(
		"UPDATE admin_accounts SET password_hash = '%s', updated_at = NOW() WHERE email = '%s';\n",
		hash, *email,
	)
}
