package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"lpfcatalog/internal/auth"
)

const defaultBaseURL = "http://localhost:8080"

var (
	baseURL   string
	tokenPath string
	client    = &http.Client{Timeout: 30 * time.Second}
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lpf",
		Short:         "Client for the LPF catalog API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&baseURL, "api", envOr("LPF_API", defaultBaseURL), "API base URL")
	rootCmd.PersistentFlags().StringVar(&tokenPath, "token", defaultTokenPath(), "token file path")

	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "List catalog items",
		Args:  cobra.NoArgs,
		RunE:  runItems,
	}
	itemsCmd.Flags().String("category", "", "movie, episode or coming_soon")
	itemsCmd.Flags().String("series", "", "series name")
	itemsCmd.Flags().StringP("query", "q", "", "search title and description")
	itemsCmd.Flags().Int("limit", 50, "maximum number of items")
	itemsCmd.Flags().Bool("json", false, "output JSON")

	itemCmd := &cobra.Command{
		Use:   "item <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE:  runItem,
	}

	seriesCmd := &cobra.Command{
		Use:   "series",
		Short: "List series with item counts",
		Args:  cobra.NoArgs,
		RunE:  runSeries,
	}

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the catalog summary",
		Args:  cobra.NoArgs,
		RunE:  runSummary,
	}

	exportCmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Download the whole catalog as JSON or CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().String("format", "json", "json or csv")
	exportCmd.Flags().Int("limit", 10000, "maximum number of items")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as admin and save the token",
		Args:  cobra.NoArgs,
		RunE:  runLogin,
	}
	loginCmd.Flags().String("password", "", "admin password (prompted when empty)")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clearToken(tokenPath); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			fmt.Println("logged out")
			return nil
		},
	}

	organizeCmd := &cobra.Command{
		Use:   "organize",
		Short: "Ask the server to re-run the organizer",
		Args:  cobra.NoArgs,
		RunE:  runOrganize,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream catalog events",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	watchCmd.Flags().String("tcp", "", "use the TCP sync server at this address instead of the websocket")
	watchCmd.Flags().Bool("pretty", true, "pretty print JSON events")

	hashCmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for LPF_ADMIN_PASSWORD_HASH",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHashPassword,
	}

	rootCmd.AddCommand(itemsCmd, itemCmd, seriesCmd, summaryCmd, exportCmd,
		loginCmd, logoutCmd, organizeCmd, watchCmd, hashCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runItems(cmd *cobra.Command, args []string) error {
	q := url.Values{}
	for _, name := range []string{"category", "series"} {
		if v, _ := cmd.Flags().GetString(name); v != "" {
			q.Set(name, v)
		}
	}
	if v, _ := cmd.Flags().GetString("query"); v != "" {
		q.Set("q", v)
	}
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	items, err := fetchItems(cmd.Context(), client, baseURL, q, limit)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(items)
	}
	for _, it := range items {
		num := ""
		if it.EpisodeNumber != nil {
			num = fmt.Sprintf(" #%d", *it.EpisodeNumber)
		}
		fmt.Printf("%-16s %-12s %-22s %s%s\n", it.ID, it.Category, it.Series, it.Title, num)
	}
	fmt.Printf("(%d items)\n", len(items))
	return nil
}

func runItem(cmd *cobra.Command, args []string) error {
	var out json.RawMessage
	endpoint := baseURL + "/catalog/items/" + url.PathEscape(args[0])
	if err := doJSON(cmd.Context(), client, http.MethodGet, endpoint, "", nil, &out); err != nil {
		return err
	}
	return printJSON(out)
}

func runSeries(cmd *cobra.Command, args []string) error {
	var resp struct {
		Total  int `json:"total"`
		Series []struct {
			Name       string `json:"name"`
			Movies     int    `json:"movies"`
			Episodes   int    `json:"episodes"`
			TotalItems int    `json:"total_items"`
		} `json:"series"`
	}
	if err := doJSON(cmd.Context(), client, http.MethodGet, baseURL+"/catalog/series", "", nil, &resp); err != nil {
		return err
	}
	for _, s := range resp.Series {
		fmt.Printf("%-24s movies=%-3d episodes=%-3d total=%d\n", s.Name, s.Movies, s.Episodes, s.TotalItems)
	}
	fmt.Printf("(%d series)\n", resp.Total)
	return nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	var out json.RawMessage
	if err := doJSON(cmd.Context(), client, http.MethodGet, baseURL+"/catalog/summary", "", nil, &out); err != nil {
		return err
	}
	return printJSON(out)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	limit, _ := cmd.Flags().GetInt("limit")

	items, err := fetchItems(cmd.Context(), client, baseURL, url.Values{}, limit)
	if err != nil {
		return err
	}
	if err := writeItemsFile(args[0], format, items); err != nil {
		return err
	}
	fmt.Printf("exported %d items to %s\n", len(items), args[0])
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		p, err := promptPassword("admin password: ")
		if err != nil {
			return err
		}
		password = p
	}
	if password == "" {
		return errors.New("password is required")
	}

	var resp tokenData
	payload := map[string]string{"password": password}
	if err := doJSON(cmd.Context(), client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := saveToken(tokenPath, resp); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Println("logged in, token expires", resp.ExpiresAt)
	return nil
}

func runOrganize(cmd *cobra.Command, args []string) error {
	token, err := readToken(tokenPath)
	if err != nil {
		return err
	}
	var out json.RawMessage
	if err := doJSON(cmd.Context(), client, http.MethodPost, baseURL+"/admin/organize", token, nil, &out); err != nil {
		return err
	}
	return printJSON(out)
}

func runWatch(cmd *cobra.Command, args []string) error {
	tcpAddr, _ := cmd.Flags().GetString("tcp")
	pretty, _ := cmd.Flags().GetBool("pretty")

	if tcpAddr != "" {
		return watchTCP(cmd.Context(), tcpAddr, pretty)
	}
	wsURL, err := websocketURL(baseURL, "/ws")
	if err != nil {
		return err
	}
	return watchWebSocket(cmd.Context(), wsURL, pretty)
}

func watchWebSocket(ctx context.Context, wsURL string, pretty bool) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	fmt.Fprintf(os.Stderr, "connected to %s\n", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		printEvent(msg, pretty)
	}
}

func watchTCP(ctx context.Context, addr string, pretty bool) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	fmt.Fprintf(os.Stderr, "connected to %s\n", addr)
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		printEvent(sc.Bytes(), pretty)
	}
	if ctx.Err() != nil {
		return nil
	}
	return sc.Err()
}

func printEvent(line []byte, pretty bool) {
	if !pretty {
		fmt.Println(string(line))
		return
	}
	var obj map[string]any
	if err := json.Unmarshal(line, &obj); err != nil {
		// not JSON? print raw
		fmt.Println(string(line))
		return
	}
	b, _ := json.MarshalIndent(obj, "", "  ")
	fmt.Println(string(b))
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		p, err := promptPassword("password: ")
		if err != nil {
			return err
		}
		password = p
	}
	if password == "" {
		return errors.New("password is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
