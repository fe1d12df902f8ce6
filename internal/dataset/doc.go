// Package dataset implements the file-level jobs that prepare YOLO training
// data: synthetic sample generation, batch binarization, train/validation
// splitting, and annotation previews.
//
// # Directory Layout
//
// Generate writes:
//
//	<output>/classes.txt        "<label> <id>" per line, ids by sorted label
//	<output>/images/aug_<i>.jpg canvas for sample i
//	<output>/labels/aug_<i>.txt one YOLO record per placed element
//
// Split writes:
//
//	<output>/images/{train,val}/  copied images
//	<output>/labels/{train,val}/  copied label files
//	<output>/train.txt, val.txt   image paths relative to <output>
//	<output>/data.yaml            when a class map is available
//
// # Error Handling
//
// Problems that make a whole run meaningless (missing or empty inputs, an
// output path that exists as a regular file) are returned as errors and
// wrap one of the sentinel errors below. Problems confined to one sample or
// one file are logged and counted in the run's stats, and the run goes on.
package dataset

import "errors"

var (
	// ErrEmptyCatalog is returned when the source directory holds no usable images.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrNoPairs is returned when no image has a matching label file.
	ErrNoPairs = errors.New("no matching image/label pairs")

	// ErrNoImages is returned when a binarize input directory has no images.
	ErrNoImages = errors.New("no images found")

	// ErrNotDirectory is returned when an output path exists but is not a directory.
	ErrNotDirectory = errors.New("path exists and is not a directory")
)
