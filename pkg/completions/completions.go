package completions

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"reviewmsg/pkg/shops"

	"github.com/spf13/cobra"
)

// ShopLister is the read side of the shop store.
type ShopLister interface {
	List(ctx context.Context) ([]shops.Shop, error)
}

// OpenFunc opens a lister for one completion request. The returned func
// releases it.
type OpenFunc func(ctx context.Context) (ShopLister, func(), error)

type Completer struct {
	open    OpenFunc
	timeout time.Duration

	mu    sync.RWMutex
	cache []string
}

func NewCompleter(open OpenFunc) *Completer {
	return &Completer{
		open:    open,
		timeout: 2 * time.Second,
	}
}

// CompleteShopIDs offers "id\tsalon name" pairs from the local store.
func (c *Completer) CompleteShopIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if c.open == nil {
		return c.cached(toComplete), cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	lister, release, err := c.open(ctx)
	if err != nil {
		return c.cached(toComplete), cobra.ShellCompDirectiveNoFileComp
	}
	defer release()

	list, err := lister.List(ctx)
	if err != nil {
		return c.cached(toComplete), cobra.ShellCompDirectiveNoFileComp
	}

	items := make([]string, 0, len(list))
	for _, s := range list {
		if s.SalonName != "" {
			items = append(items, fmt.Sprintf("%s\t%s", s.ID, s.SalonName))
		} else {
			items = append(items, s.ID)
		}
	}

	c.mu.Lock()
	c.cache = items
	c.mu.Unlock()

	return c.filterPrefix(items, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) cached(toComplete string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filterPrefix(c.cache, toComplete)
}

func (c *Completer) CompleteFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	formats := []string{"table", "json", "yaml"}
	results := c.filterPrefix(formats, toComplete)

	for i, format := range results {
		results[i] = fmt.Sprintf("%s\t%s", format, getFormatDescription(format))
	}

	return results, cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteFilterMode(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	modes := []string{
		"contains\tSubstring match, ignoring case",
		"exact\tWhole id or name",
		"regex\tRegular expression",
		"fuzzy\tCharacters in order",
	}
	return c.filterPrefix(modes, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) CompleteLogLevel(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	levels := []string{"debug", "info", "warn", "error", "off"}
	return c.filterPrefix(levels, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func (c *Completer) filterPrefix(items []string, prefix string) []string {
	var result []string
	for _, item := range items {
		itemName := strings.Split(item, "\t")[0]
		if strings.HasPrefix(strings.ToLower(itemName), strings.ToLower(prefix)) {
			result = append(result, item)
		}
	}
	return result
}

func getFormatDescription(format string) string {
	switch format {
	case "table":
		return "Human readable columns"
	case "json":
		return "Indented JSON"
	case "yaml":
		return "YAML document"
	default:
		return ""
	}
}

func RegisterCompletions(rootCmd *cobra.Command, open OpenFunc) {
	completer := NewCompleter(open)

	rootCmd.RegisterFlagCompletionFunc("format", completer.CompleteFormat)
	rootCmd.RegisterFlagCompletionFunc("log-level", completer.CompleteLogLevel)

	for _, path := range [][]string{{"sync"}, {"compose"}} {
		c, _, err := rootCmd.Find(path)
		if err == nil && c != nil && c != rootCmd {
			c.RegisterFlagCompletionFunc("shop", completer.CompleteShopIDs)
		}
	}

	shopsListCmd, _, err := rootCmd.Find([]string{"shops", "list"})
	if err == nil && shopsListCmd != nil && shopsListCmd != rootCmd {
		shopsListCmd.RegisterFlagCompletionFunc("filter-mode", completer.CompleteFilterMode)
	}
}
