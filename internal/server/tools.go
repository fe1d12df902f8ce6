package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": description}
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Inspection
		{
			Name:        "image_dimensions",
			Description: "Get the width, height and format of an image file without decoding its pixels.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": prop("string", "Absolute path to the image file"),
			}, "path"),
		},
		{
			Name:        "catalog_inspect",
			Description: "List the source images in a catalog directory and the class id each label would receive.",
			InputSchema: objectSchema(map[string]interface{}{
				"dataset_path": prop("string", "Directory of source images; defaults to the configured generate.dataset_path"),
			}),
		},
		{
			Name:        "annotations_read",
			Description: "Parse a YOLO label file. With image_width and image_height, boxes are also returned in pixels.",
			InputSchema: objectSchema(map[string]interface{}{
				"path":         prop("string", "Absolute path to the label file"),
				"image_width":  prop("integer", "Canvas width used to convert boxes to pixels"),
				"image_height": prop("integer", "Canvas height used to convert boxes to pixels"),
			}, "path"),
		},

		// Jobs
		{
			Name:        "dataset_generate",
			Description: "Generate synthetic samples: random non-overlapping layouts of catalog images on solid backgrounds, with one YOLO label file per image. Arguments override the [generate] configuration.",
			InputSchema: objectSchema(map[string]interface{}{
				"dataset_path":      prop("string", "Directory of source images, one class per file"),
				"output_path":       prop("string", "Output directory"),
				"num_samples":       prop("integer", "Number of samples to generate"),
				"canvas_width":      prop("integer", "Canvas width in pixels"),
				"canvas_height":     prop("integer", "Canvas height in pixels"),
				"min_objects":       prop("integer", "Minimum objects per sample"),
				"max_objects":       prop("integer", "Maximum objects per sample"),
				"scale_min":         prop("number", "Minimum scale factor"),
				"scale_max":         prop("number", "Maximum scale factor"),
				"max_iou":           prop("number", "Largest IoU allowed between placed boxes"),
				"max_attempts":      prop("integer", "Placement attempts per object"),
				"background_colors": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Background colors as hex or R,G,B"},
				"seed":              prop("integer", "Random seed; 0 picks one from the clock"),
				"workers":           prop("integer", "Samples generated in parallel"),
				"trim_sources":      prop("boolean", "Crop source margins before placement"),
				"augment":           prop("object", "Augmentation settings, same keys as [generate.augment]"),
			}),
		},
		{
			Name:        "dataset_split",
			Description: "Copy matched images and labels into images/{train,val} and labels/{train,val}, write train.txt and val.txt, and data.yaml when a class map is given. Arguments override the [split] configuration.",
			InputSchema: objectSchema(map[string]interface{}{
				"image_dir":    prop("string", "Directory of images"),
				"label_dir":    prop("string", "Directory of YOLO label files"),
				"output_dir":   prop("string", "Root of the split dataset"),
				"train_ratio":  prop("number", "Fraction of pairs used for training"),
				"seed":         prop("integer", "Shuffle seed"),
				"classes_file": prop("string", "Class map used to write data.yaml"),
			}),
		},
		{
			Name:        "images_binarize",
			Description: "Convert every image in a directory to a square grayscale image and apply a threshold. Arguments override the [binarize] configuration.",
			InputSchema: objectSchema(map[string]interface{}{
				"input_dir":  prop("string", "Directory of source images"),
				"output_dir": prop("string", "Directory for binarized images"),
				"threshold":  prop("integer", "Gray level threshold (0-255)"),
				"method":     map[string]interface{}{"type": "string", "enum": []string{"binary", "binary_inv", "trunc", "tozero", "tozero_inv"}},
				"size":       prop("integer", "Square output size; 0 keeps the source size"),
			}),
		},
		{
			Name:        "annotations_preview",
			Description: "Draw the boxes of a YOLO label file over its image and save the result.",
			InputSchema: objectSchema(map[string]interface{}{
				"image_path":  prop("string", "Absolute path to the image"),
				"label_path":  prop("string", "Label file; derived from image_path when omitted"),
				"output_path": prop("string", "Where to write the preview"),
				"thickness":   prop("integer", "Outline width in pixels. Default 2"),
				"show_labels": prop("boolean", "Draw class ids. Default true"),
			}, "image_path", "output_path"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
