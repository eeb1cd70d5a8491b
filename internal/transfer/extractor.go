package transfer

import (
	"iter"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"xcmScope/internal/calls"
	"xcmScope/internal/model"
	"xcmScope/internal/ss58"
	"xcmScope/internal/xcm"
)

const DefaultNativeToken = "KSM"

type Options struct {
	NativeToken     string
	RawAddressParas []uint32
	Logger          *zap.Logger
}

// Extractor turns blocks of parsed extrinsics into canonical transfers.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	codec       *ss58.Codec
	nativeToken string
	rawParas    map[uint32]struct{}
	logger      *zap.Logger
}

// Result is the outcome of one extraction pass, in input order.
type Result struct {
	Transfers []model.Transfer
	Failures  []model.DecodeFailure
	Skipped   int
}

func NewExtractor(codec *ss58.Codec, opts Options) *Extractor {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	token := opts.NativeToken
	if token == "" {
		token = DefaultNativeToken
	}
	rawParas := make(map[uint32]struct{}, len(opts.RawAddressParas))
	for _, id := range opts.RawAddressParas {
		rawParas[id] = struct{}{}
	}
	return &Extractor{
		codec:       codec,
		nativeToken: token,
		rawParas:    rawParas,
		logger:      logger,
	}
}

// Transfers yields the transfers of blocks lazily, in block and extrinsic
// order. Decode failures are logged and never stop the sequence.
func (e *Extractor) Transfers(blocks []model.Block) iter.Seq[model.Transfer] {
	return func(yield func(model.Transfer) bool) {
		e.walk(blocks, yield, nil, nil)
	}
}

// Extract decodes every extrinsic of blocks and collects transfers and
// failures.
func (e *Extractor) Extract(blocks []model.Block) Result {
	result := Result{}
	e.walk(blocks,
		func(t model.Transfer) bool {
			result.Transfers = append(result.Transfers, t)
			return true
		},
		func(f model.DecodeFailure) {
			result.Failures = append(result.Failures, f)
		},
		func() {
			result.Skipped++
		},
	)
	return result
}

func (e *Extractor) walk(blocks []model.Block, yield func(model.Transfer) bool, onFailure func(model.DecodeFailure), onSkip func()) {
	for _, block := range blocks {
		for _, ext := range block.Extrinsics {
			transfer, ok, err := e.Decode(block, ext)
			if err != nil {
				failure := e.failure(block, ext, err)
				e.logger.Warn("decode extrinsic failed",
					zap.String("extrinsic_hash", failure.ExtrinsicHash),
					zap.String("extrinsic_id", failure.ExtrinsicID),
					zap.Uint64("block_height", failure.BlockHeight),
					zap.String("call", failure.Call),
					zap.String("reason", failure.Reason),
				)
				if onFailure != nil {
					onFailure(failure)
				}
				continue
			}
			if !ok {
				if onSkip != nil {
					onSkip()
				}
				continue
			}
			if !yield(transfer) {
				return
			}
		}
	}
}

// Decode decodes one extrinsic. It reports ok=false without an error when the
// extrinsic is not a transfer call or is unsigned.
func (e *Extractor) Decode(block model.Block, ext model.Extrinsic) (model.Transfer, bool, error) {
	if !calls.IsTransfer(ext.Call.Name) {
		return model.Transfer{}, false, nil
	}
	if !ext.HasSigner() {
		return model.Transfer{}, false, nil
	}

	envelope, err := calls.Normalize(ext.Call)
	if err != nil {
		return model.Transfer{}, false, err
	}
	paraID, err := xcm.DecodeDestination(envelope.Dest)
	if err != nil {
		return model.Transfer{}, false, err
	}
	beneficiary, err := xcm.DecodeBeneficiary(envelope.Beneficiary)
	if err != nil {
		return model.Transfer{}, false, err
	}
	amounts, err := xcm.DecodeAssets(envelope.Assets)
	if err != nil {
		return model.Transfer{}, false, err
	}

	signer, err := ResolveSigner(ext.Signature.Address)
	if err != nil {
		return model.Transfer{}, false, err
	}
	from, err := e.codec.Encode(signer)
	if err != nil {
		return model.Transfer{}, false, xcm.Malformed("signer", err)
	}
	to, err := e.destination(paraID, beneficiary)
	if err != nil {
		return model.Transfer{}, false, err
	}
	fee, err := parseFee(ext)
	if err != nil {
		return model.Transfer{}, false, err
	}

	assets := make([]model.TransferAsset, 0, len(amounts))
	for _, amount := range amounts {
		assets = append(assets, model.TransferAsset{Token: e.nativeToken, Amount: amount})
	}

	return model.Transfer{
		ID:            ext.RecordID(block.Height),
		BlockNumber:   block.Height,
		Timestamp:     time.UnixMilli(block.Timestamp).UTC(),
		ExtrinsicHash: ext.Hash,
		From:          from,
		To:            to,
		Assets:        assets,
		Fee:           fee,
	}, true, nil
}

// destination renders the beneficiary. AccountKey20 keys are EIP-55 hex;
// AccountId32 keys are SS58 unless the parachain uses raw addressing.
func (e *Extractor) destination(paraID uint32, beneficiary xcm.AddressExtract) (model.Destination, error) {
	dest := model.Destination{
		ParaID: paraID,
		ID:     hexutil.Encode(beneficiary.Account),
	}
	switch {
	case len(beneficiary.Account) == common.AddressLength:
		dest.Address = common.BytesToAddress(beneficiary.Account).Hex()
	case e.isRawPara(paraID):
		dest.Address = dest.ID
	default:
		addr, err := e.codec.Encode(beneficiary.Account)
		if err != nil {
			return model.Destination{}, xcm.Malformed("beneficiary", err)
		}
		dest.Address = addr
	}
	return dest, nil
}

func (e *Extractor) isRawPara(paraID uint32) bool {
	_, ok := e.rawParas[paraID]
	return ok
}

func (e *Extractor) failure(block model.Block, ext model.Extrinsic, err error) model.DecodeFailure {
	kind := xcm.KindOf(err)
	if kind == "" {
		kind = xcm.KindMalformedPayload
	}
	return model.DecodeFailure{
		BlockHeight:   block.Height,
		ExtrinsicID:   ext.RecordID(block.Height),
		ExtrinsicHash: ext.Hash,
		Call:          ext.Call.Name,
		Kind:          string(kind),
		Reason:        err.Error(),
	}
}

func parseFee(ext model.Extrinsic) (*big.Int, error) {
	raw := string(ext.Fee)
	if raw == "" || raw == "null" {
		return new(big.Int), nil
	}
	fee, err := xcm.ParseAmount(ext.Fee)
	if err != nil {
		return nil, xcm.Malformed("fee", err)
	}
	return fee, nil
}
