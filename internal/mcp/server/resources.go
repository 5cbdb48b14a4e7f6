package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/neurodatascience/nipoppy-mcp/internal/dataset"
	"github.com/neurodatascience/nipoppy-mcp/internal/mcp/server/metrics"
)

const (
	resourceConfigURI   = "nipoppy://config"
	resourceManifestURI = "nipoppy://manifest"
	resourceLayoutURI   = "nipoppy://layout"
)

// registerResources exposes the default dataset's key files as named MCP
// resources. Resources always read from the configured default root; tools
// are the surface for per-call root overrides.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         resourceConfigURI,
		Name:        "global-config",
		Description: "The dataset's global_config.json",
		MIMEType:    "application/json",
	}, s.resourceHandler(resourceConfigURI, "application/json", func(root string) (string, error) {
		return dataset.ReadText(dataset.GlobalConfigPath(root))
	}))

	s.mcp.AddResource(&mcp.Resource{
		URI:         resourceManifestURI,
		Name:        "manifest",
		Description: "The dataset manifest table (participants, sessions, datatypes)",
		MIMEType:    "text/tab-separated-values",
	}, s.resourceHandler(resourceManifestURI, "text/tab-separated-values", func(root string) (string, error) {
		text, err := dataset.ReadText(filepath.Join(root, dataset.ManifestTSVFile))
		if err != nil && dataset.IsKind(err, dataset.KindNotFound) {
			return dataset.ReadText(filepath.Join(root, dataset.ManifestCSVFile))
		}
		return text, err
	}))

	s.mcp.AddResource(&mcp.Resource{
		URI:         resourceLayoutURI,
		Name:        "layout",
		Description: "The expected on-disk layout of a Nipoppy dataset",
		MIMEType:    "text/plain",
	}, s.resourceHandler(resourceLayoutURI, "text/plain", func(root string) (string, error) {
		return renderLayout(root), nil
	}))
}

func (s *Server) resourceHandler(uri, mimeType string, read func(root string) (string, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		s.log.Debug("mcp/resource: reading", "uri", uri)
		text, err := read(s.cfg.DefaultDatasetRoot)
		if err != nil {
			metrics.ResourceReadsTotal.WithLabelValues(uri, "error").Inc()
			return nil, fmt.Errorf("failed to read resource %s: %w", uri, err)
		}
		metrics.ResourceReadsTotal.WithLabelValues(uri, "success").Inc()
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: uri, MIMEType: mimeType, Text: text},
			},
		}, nil
	}
}

func renderLayout(root string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset root: %s%c\n", root, os.PathSeparator)
	fmt.Fprintf(&b, "  %s    dataset-wide configuration\n", dataset.GlobalConfigFile)
	fmt.Fprintf(&b, "  %s          ground-truth participant/session table\n", dataset.ManifestTSVFile)
	fmt.Fprintf(&b, "  %s  curation status table\n", dataset.CurationStatusFile)
	fmt.Fprintf(&b, "  %s  processing status table\n", dataset.ProcessingStatusFile)
	fmt.Fprintf(&b, "  %s/<type>/<name>-<version>/  installed pipeline bundles\n", dataset.PipelinesDirName)
	for _, dir := range dataset.StandardDirs {
		fmt.Fprintf(&b, "  %s/\n", dir)
	}
	return b.String()
}
