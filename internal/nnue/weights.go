package nnue

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Weight file format constants.
const (
	MagicNumber = 0x4E4E5545 // "NNUE"
	Version     = 1
)

// FileHeader is the header of the weight file.
type FileHeader struct {
	Magic     uint32
	Version   uint32
	InputSize uint32
	L1Size    uint32
}

// LoadWeights loads network weights from a binary file. File format:
//   - Header: Magic, Version, InputSize, L1Size (4 bytes each)
//   - L1Weights: InputSize * L1Size * int16
//   - L1Bias: L1Size * int16
//   - OutputWeights: L1Size * int8
//   - OutputBias: int32
func (n *Network) LoadWeights(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open weights file: %w", err)
	}
	defer f.Close()

	return n.LoadWeightsFromReader(f)
}

// SaveWeights saves network weights to a binary file.
func (n *Network) SaveWeights(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create weights file: %w", err)
	}
	defer f.Close()

	header := FileHeader{
		Magic:     MagicNumber,
		Version:   Version,
		InputSize: InputSize,
		L1Size:    L1Size,
	}
	if err := binary.Write(f, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < InputSize; i++ {
		if err := binary.Write(f, binary.LittleEndian, &n.L1Weights[i]); err != nil {
			return fmt.Errorf("failed to write L1 weights at %d: %w", i, err)
		}
	}

	if err := binary.Write(f, binary.LittleEndian, &n.L1Bias); err != nil {
		return fmt.Errorf("failed to write L1 bias: %w", err)
	}

	if err := binary.Write(f, binary.LittleEndian, &n.OutputWeights); err != nil {
		return fmt.Errorf("failed to write output weights: %w", err)
	}

	if err := binary.Write(f, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("failed to write output bias: %w", err)
	}

	return nil
}

// LoadWeightsFromReader loads network weights from an io.Reader.
func (n *Network) LoadWeightsFromReader(r io.Reader) error {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	if header.Magic != MagicNumber {
		return fmt.Errorf("invalid magic number: expected %x, got %x", MagicNumber, header.Magic)
	}
	if header.Version != Version {
		return fmt.Errorf("unsupported version: expected %d, got %d", Version, header.Version)
	}
	if header.InputSize != InputSize {
		return fmt.Errorf("input size mismatch: expected %d, got %d", InputSize, header.InputSize)
	}
	if header.L1Size != L1Size {
		return fmt.Errorf("L1 size mismatch: expected %d, got %d", L1Size, header.L1Size)
	}

	for i := 0; i < InputSize; i++ {
		if err := binary.Read(r, binary.LittleEndian, &n.L1Weights[i]); err != nil {
			return fmt.Errorf("failed to read L1 weights at %d: %w", i, err)
		}
	}

	if err := binary.Read(r, binary.LittleEndian, &n.L1Bias); err != nil {
		return fmt.Errorf("failed to read L1 bias: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &n.OutputWeights); err != nil {
		return fmt.Errorf("failed to read output weights: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &n.OutputBias); err != nil {
		return fmt.Errorf("failed to read output bias: %w", err)
	}

	return nil
}
