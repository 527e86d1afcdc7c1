package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/birbparty/clusterapi/sdk"
	"github.com/birbparty/clusterapi/sdk/models"
)

func main() {
	config, err := sdk.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config = config.WithTimeout(10 * time.Second).WithRetries(3)

	client, err := sdk.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	var affected sdk.AffectedClusters

	// Example 1: list the CMSes on one virtual host
	fmt.Println("--- Example 1: List ---")
	filter := sdk.NewListFilter()
	if err := filter.AddFilter("virtual_host_id", "12"); err != nil {
		log.Fatalf("Invalid filter: %v", err)
	}
	_ = filter.AddSort("id", sdk.SortAscending)

	cmses, err := sdk.Result[[]*models.Cms](client.Cmses().List(ctx, filter))(sdk.KeyCmses)
	if err != nil {
		log.Fatalf("Failed to list CMSes: %v", err)
	}
	for _, cms := range cmses {
		fmt.Printf("✓ CMS %d: %s on cluster %d\n", *cms.ID(), cms.SoftwareName(), *cms.ClusterID())
	}
	if len(cmses) == 0 {
		fmt.Println("No CMSes found")
		return
	}
	id := *cmses[0].ID()

	// Example 2: API errors are responses, not errors
	fmt.Println("\n--- Example 2: API errors ---")
	resp, err := client.Cmses().Get(ctx, 999999)
	switch {
	case err != nil:
		log.Fatalf("Transport failure: %v", err)
	case !resp.IsSuccess():
		fmt.Printf("✓ API refused with %d: %s\n", resp.StatusCode(), resp.ErrorMessage())
	}

	// Example 3: local validation happens before any request is sent
	fmt.Println("\n--- Example 3: Validation ---")
	install := &models.CmsInstallation{}
	if err := install.SetSiteURL("not a url"); err != nil {
		fmt.Printf("✓ Rejected locally: %v\n", err)
	}
	if _, err := client.Cmses().Install(ctx, id, install, ""); sdk.IsValidationError(err) {
		fmt.Printf("✓ Incomplete installation rejected: %v\n", err)
	}

	// Example 4: a compound action confirmed by re-fetching the CMS
	fmt.Println("\n--- Example 4: Regenerate salts ---")
	resp, err = client.Cmses().RegenerateSalts(ctx, id)
	if err != nil {
		log.Fatalf("Failed to regenerate salts: %v", err)
	}
	if resp.IsSuccess() {
		affected.Merge(resp)
		fmt.Printf("✓ Salts regenerated, clusters affected: %v\n", resp.AffectedClusters())
	} else {
		fmt.Printf("✗ Refused: %s\n", resp.ErrorMessage())
	}

	// Example 5: one-time login URL
	fmt.Println("\n--- Example 5: One-time login ---")
	url, err := sdk.Result[string](client.Cmses().OneTimeLogin(ctx, id))(sdk.KeyURL)
	if err != nil {
		fmt.Printf("✗ %v\n", err)
	} else {
		fmt.Printf("✓ Login at %s\n", url)
	}

	fmt.Println("\n--- Summary ---")
	fmt.Printf("Clusters to sync: %v\n", affected.Unique())
}
