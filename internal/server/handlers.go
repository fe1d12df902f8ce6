package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ironsheep/yolo-prep/internal/dataset"
	"github.com/ironsheep/yolo-prep/internal/geometry"
	"github.com/ironsheep/yolo-prep/internal/imaging"
	"github.com/ironsheep/yolo-prep/internal/layout"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "dataset_generate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	s.logger.Debug("tool call", "tool", params.Name)
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Inspection
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "catalog_inspect":
		return s.handleCatalogInspect(args)
	case "annotations_read":
		return s.handleAnnotationsRead(args)

	// Jobs
	case "dataset_generate":
		return s.handleDatasetGenerate(ctx, args)
	case "dataset_split":
		return s.handleDatasetSplit(ctx, args)
	case "images_binarize":
		return s.handleImagesBinarize(ctx, args)
	case "annotations_preview":
		return s.handleAnnotationsPreview(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// decodeArgs unmarshals tool arguments into v. Keys absent from args keep
// v's current values; unknown keys are an error.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Inspection Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(a.Path)
}

type catalogInspectArgs struct {
	DatasetPath string `json:"dataset_path"`
}

// CatalogSource is one source image and its class.
type CatalogSource struct {
	Path    string `json:"path"`
	Label   string `json:"label"`
	ClassID int    `json:"class_id"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// CatalogResult describes a catalog directory.
type CatalogResult struct {
	Classes []string        `json:"classes"`
	Sources []CatalogSource `json:"sources"`
}

func (s *Server) handleCatalogInspect(args json.RawMessage) (interface{}, error) {
	a := catalogInspectArgs{DatasetPath: s.cfg.Generate.DatasetPath}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	cat, err := dataset.LoadCatalog(a.DatasetPath)
	if err != nil {
		return nil, err
	}

	result := &CatalogResult{Classes: cat.Labels.Labels()}
	for _, e := range cat.Entries {
		dims, err := imaging.GetDimensions(e.Path)
		if err != nil {
			return nil, err
		}
		id, _ := cat.Labels.ID(e.Label)
		result.Sources = append(result.Sources, CatalogSource{
			Path:    e.Path,
			Label:   e.Label,
			ClassID: id,
			Width:   dims.Width,
			Height:  dims.Height,
		})
	}
	return result, nil
}

type annotationsReadArgs struct {
	Path        string `json:"path"`
	ImageWidth  int    `json:"image_width"`
	ImageHeight int    `json:"image_height"`
}

// AnnotationEntry is one parsed label line.
type AnnotationEntry struct {
	Record layout.Record `json:"record"`
	Box    *geometry.Box `json:"box,omitempty"`
}

func (s *Server) handleAnnotationsRead(args json.RawMessage) (interface{}, error) {
	var a annotationsReadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	records, err := dataset.ReadAnnotations(a.Path)
	if err != nil {
		return nil, err
	}

	entries := make([]AnnotationEntry, len(records))
	for i, r := range records {
		entries[i].Record = r
		if a.ImageWidth > 0 && a.ImageHeight > 0 {
			b := r.Box(a.ImageWidth, a.ImageHeight)
			entries[i].Box = &b
		}
	}
	return map[string]interface{}{
		"count":       len(entries),
		"annotations": entries,
	}, nil
}

// === Job Handlers ===

// GenerateResult reports a dataset_generate run.
type GenerateResult struct {
	*dataset.GenerateStats
	Seed    uint64   `json:"seed"`
	Output  string   `json:"output"`
	Classes []string `json:"classes"`
}

func (s *Server) handleDatasetGenerate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	cfg := s.cfg.Generate
	cfg.BackgroundColors = append([]string(nil), cfg.BackgroundColors...)
	if err := decodeArgs(args, &cfg); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	cat, err := dataset.LoadCatalog(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	// Sources are shared by the run's workers only; a later call must see
	// edits made to the catalog in between.
	defer s.cache.Clear()
	gen, err := dataset.NewGenerator(cfg, cat,
		dataset.WithLogger(s.logger),
		dataset.WithImageCache(s.cache),
	)
	if err != nil {
		return nil, err
	}
	stats, err := gen.Run(ctx)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{
		GenerateStats: stats,
		Seed:          cfg.Seed,
		Output:        cfg.OutputPath,
		Classes:       cat.Labels.Labels(),
	}, nil
}

func (s *Server) handleDatasetSplit(ctx context.Context, args json.RawMessage) (interface{}, error) {
	cfg := s.cfg.Split
	if err := decodeArgs(args, &cfg); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	sp, err := dataset.NewSplitter(cfg, s.logger)
	if err != nil {
		return nil, err
	}
	return sp.Run(ctx)
}

func (s *Server) handleImagesBinarize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	cfg := s.cfg.Binarize
	if err := decodeArgs(args, &cfg); err != nil {
		return nil, err
	}
	return dataset.BinarizeDir(ctx, cfg, s.logger)
}

type annotationsPreviewArgs struct {
	ImagePath  string `json:"image_path"`
	LabelPath  string `json:"label_path"`
	OutputPath string `json:"output_path"`
	Thickness  int    `json:"thickness"`
	ShowLabels *bool  `json:"show_labels"`
}

func (s *Server) handleAnnotationsPreview(args json.RawMessage) (interface{}, error) {
	var a annotationsPreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.ImagePath == "" || a.OutputPath == "" {
		return nil, fmt.Errorf("image_path and output_path are required")
	}
	if a.LabelPath == "" {
		a.LabelPath = dataset.LabelPathFor(a.ImagePath)
	}
	if a.Thickness == 0 {
		a.Thickness = 2
	}
	show := a.ShowLabels == nil || *a.ShowLabels

	n, err := dataset.Preview(a.ImagePath, a.LabelPath, a.OutputPath, imaging.OverlayOptions{
		Thickness:  a.Thickness,
		ShowLabels: show,
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"boxes":  n,
		"label":  a.LabelPath,
		"output": a.OutputPath,
	}, nil
}
