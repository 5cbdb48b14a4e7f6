package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	flag "github.com/spf13/pflag"

	"github.com/neurodatascience/nipoppy-mcp/internal/logger"
	mcpclient "github.com/neurodatascience/nipoppy-mcp/internal/mcp/client"
)

const usage = `Usage: dataset-cli [flags] <command>

Commands:
  tools                    list the gateway's tools
  participants             list participant/session pairs (--stage, --pipeline, --pipeline-version, --step)
  pipelines                list installed pipeline bundles
  info                     print the dataset overview
  navigate                 resolve a dataset path (--category, --target, --pipeline, --pipeline-version)
  ls [subdirectory]        list a dataset directory
  cat <file>               print a dataset file
  tree                     print the directory structure (--depth)
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	endpointFlag := flag.String("endpoint", "", "gateway endpoint URL (or set MCP_URL)")
	tokenFlag := flag.String("token", "", "bearer token (or set MCP_TOKEN)")
	rootFlag := flag.String("dataset-root", "", "dataset root override sent with each call")
	stageFlag := flag.String("stage", "all", "data stage for the participants command")
	pipelineFlag := flag.String("pipeline", "", "pipeline name")
	pipelineVersionFlag := flag.String("pipeline-version", "", "pipeline version")
	stepFlag := flag.String("step", "", "pipeline step")
	categoryFlag := flag.String("category", "dataset_root", "path category for the navigate command")
	targetFlag := flag.String("target", "", "target for the navigate command")
	depthFlag := flag.Int("depth", 2, "maximum depth for the tree command")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("a command is required")
	}
	command := flag.Arg(0)

	endpoint := *endpointFlag
	if endpoint == "" {
		endpoint = os.Getenv("MCP_URL")
	}
	if endpoint == "" {
		return fmt.Errorf("endpoint is required (--endpoint or MCP_URL)")
	}
	token := *tokenFlag
	if token == "" {
		token = os.Getenv("MCP_TOKEN")
	}

	log := logger.New(*verboseFlag)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client, err := mcpclient.New(ctx, mcpclient.Config{
		Logger:   log,
		Endpoint: endpoint,
		Token:    token,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	args := map[string]any{}
	if *rootFlag != "" {
		args["dataset_root"] = *rootFlag
	}

	switch command {
	case "tools":
		tools, err := client.ListTools(ctx)
		if err != nil {
			return err
		}
		table := newTable([]string{"Name", "Description"})
		for _, tool := range tools {
			table.Append([]string{tool.Name, tool.Description})
		}
		table.Render()
		return nil

	case "participants":
		args["data_stage"] = *stageFlag
		if *pipelineFlag != "" {
			args["pipeline_name"] = *pipelineFlag
		}
		if *pipelineVersionFlag != "" {
			args["pipeline_version"] = *pipelineVersionFlag
		}
		if *stepFlag != "" {
			args["pipeline_step"] = *stepFlag
		}
		out, err := client.CallTool(ctx, "get-participants-sessions", args)
		if err != nil {
			return err
		}
		if err := toolError(out); err != nil {
			return err
		}
		table := newTable([]string{"Participant", "Session"})
		if pairs, ok := out["participants_sessions"].([]any); ok {
			for _, raw := range pairs {
				if pair, ok := raw.(map[string]any); ok {
					table.Append([]string{str(pair["participant_id"]), str(pair["session_id"])})
				}
			}
		}
		table.Render()
		return nil

	case "pipelines":
		out, err := client.CallTool(ctx, "list-pipelines", args)
		if err != nil {
			return err
		}
		if err := toolError(out); err != nil {
			return err
		}
		table := newTable([]string{"Type", "Name", "Version", "Steps"})
		if pipelines, ok := out["pipelines"].([]any); ok {
			for _, raw := range pipelines {
				if p, ok := raw.(map[string]any); ok {
					table.Append([]string{str(p["type"]), str(p["name"]), str(p["version"]), strList(p["steps"])})
				}
			}
		}
		table.Render()
		return nil

	case "info":
		return callAndDump(ctx, client, "get-dataset-info", args)

	case "navigate":
		args["path_category"] = *categoryFlag
		if *targetFlag != "" {
			args["target"] = *targetFlag
		}
		if *pipelineFlag != "" {
			args["pipeline_name"] = *pipelineFlag
		}
		if *pipelineVersionFlag != "" {
			args["pipeline_version"] = *pipelineVersionFlag
		}
		return callAndDump(ctx, client, "navigate-dataset", args)

	case "ls":
		if flag.NArg() > 1 {
			args["subdirectory"] = flag.Arg(1)
		}
		out, err := client.CallTool(ctx, "list-dataset-directory", args)
		if err != nil {
			return err
		}
		if err := toolError(out); err != nil {
			return err
		}
		table := newTable([]string{"Type", "Name", "Path"})
		if items, ok := out["items"].([]any); ok {
			for _, raw := range items {
				if item, ok := raw.(map[string]any); ok {
					table.Append([]string{str(item["type"]), str(item["name"]), str(item["path"])})
				}
			}
		}
		table.Render()
		return nil

	case "cat":
		if flag.NArg() < 2 {
			return fmt.Errorf("cat requires a file path")
		}
		args["file_path"] = flag.Arg(1)
		out, err := client.CallTool(ctx, "read-dataset-file", args)
		if err != nil {
			return err
		}
		if err := toolError(out); err != nil {
			return err
		}
		if content, ok := out["content_json"]; ok {
			return dumpJSON(content)
		}
		fmt.Println(str(out["content"]))
		return nil

	case "tree":
		args["max_depth"] = *depthFlag
		return callAndDump(ctx, client, "get-directory-structure", args)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func callAndDump(ctx context.Context, client *mcpclient.Client, name string, args map[string]any) error {
	out, err := client.CallTool(ctx, name, args)
	if err != nil {
		return err
	}
	if err := toolError(out); err != nil {
		return err
	}
	return dumpJSON(out)
}

func toolError(out map[string]any) error {
	if msg, ok := out["error"].(string); ok && msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func dumpJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func strList(v any) string {
	list, ok := v.([]any)
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, str(item))
	}
	return fmt.Sprintf("%v", parts)
}
