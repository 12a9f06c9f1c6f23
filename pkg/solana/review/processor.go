package review

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/mr-tron/base58/base58"
	"github.com/sirupsen/logrus"

	"github.com/reelprotocol/review-program/pkg/solana"
	"github.com/reelprotocol/review-program/pkg/solana/system"
	"github.com/reelprotocol/review-program/pkg/solana/token"
)

// Processor executes review program instructions. Every mutating path
// validates the supplied accounts against re-derived addresses before any
// buffer is touched; the host rolls the whole invocation back on error, so
// no partial mutation ever commits.
type Processor struct {
	log *logrus.Entry
}

func NewProcessor() *Processor {
	return &Processor{
		log: logrus.StandardLogger().WithField("type", "solana/review/processor"),
	}
}

func (p *Processor) ID() ed25519.PublicKey {
	return PROGRAM_ID
}

func (p *Processor) Execute(ctx solana.InvokeContext, data []byte) error {
	instruction, err := UnpackInstruction(data)
	if err != nil {
		return err
	}

	switch args := instruction.(type) {
	case *AddReviewInstructionArgs:
		return p.addReview(ctx, args)
	case *UpdateReviewInstructionArgs:
		return p.updateReview(ctx, args)
	case *AddCommentInstructionArgs:
		return p.addComment(ctx, args)
	case *InitializeMintInstructionArgs:
		return p.initializeMint(ctx)
	default:
		return solana.ErrInvalidInstructionData
	}
}

func (p *Processor) addReview(ctx solana.InvokeContext, args *AddReviewInstructionArgs) error {
	log := p.log.WithField("method", "addReview")

	accounts, err := loadAccounts(ctx, 8)
	if err != nil {
		return err
	}

	initializer := accounts[0]
	reviewAccount := accounts[1]
	counterAccount := accounts[2]
	tokenMint := accounts[3]
	mintAuthority := accounts[4]
	reviewerTokens := accounts[5]
	tokenProgram := accounts[7]

	log.WithFields(logrus.Fields{
		"title":  args.Title,
		"rating": args.Rating,
	}).Debug("adding review")

	if !initializer.IsSigner {
		return solana.ErrMissingSignature
	}

	review, bump, err := GetReviewAddress(&GetReviewAddressArgs{
		Author: initializer.Key,
		Title:  args.Title,
	})
	if err != nil {
		return err
	}
	if !bytes.Equal(review, reviewAccount.Key) {
		return ErrorInvalidPDA
	}

	if args.Rating > 5 || args.Rating < 1 {
		return ErrorInvalidRating
	}

	if GetReviewAccountSize(args.Title, args.Description) > ReviewAccountSize {
		return ErrorInvalidDataLength
	}

	err = ctx.InvokeSigned(
		system.CreateAccount(
			initializer.Key,
			reviewAccount.Key,
			PROGRAM_ID,
			ctx.MinimumBalance(ReviewAccountSize),
			ReviewAccountSize,
		),
		[][]byte{initializer.Key, []byte(args.Title), {bump}},
	)
	if err != nil {
		return err
	}

	var record Review
	if err := record.Unmarshal(reviewAccount.Data); err != nil {
		return err
	}
	if record.IsInitialized() {
		return solana.ErrAccountAlreadyInitialized
	}

	record.Initialized = true
	record.Reviewer = initializer.Key
	record.Rating = args.Rating
	record.Title = args.Title
	record.Description = args.Description
	copy(reviewAccount.Data, record.Marshal())

	log.WithField("review", base58.Encode(review)).Debug("review account created")

	counter, counterBump, err := GetCommentCounterAddress(&GetCommentCounterAddressArgs{
		Review: review,
	})
	if err != nil {
		return err
	}
	if !bytes.Equal(counter, counterAccount.Key) {
		return ErrorInvalidPDA
	}

	err = ctx.InvokeSigned(
		system.CreateAccount(
			initializer.Key,
			counterAccount.Key,
			PROGRAM_ID,
			ctx.MinimumBalance(uint64(CommentCounterAccountSize)),
			uint64(CommentCounterAccountSize),
		),
		[][]byte{review, commentSeed, {counterBump}},
	)
	if err != nil {
		return err
	}

	var counterRecord CommentCounter
	if err := counterRecord.Unmarshal(counterAccount.Data); err != nil {
		return err
	}
	if counterRecord.IsInitialized() {
		return solana.ErrAccountAlreadyInitialized
	}

	counterRecord.Initialized = true
	counterRecord.Count = 0
	copy(counterAccount.Data, counterRecord.Marshal())

	return p.mintReward(ctx, initializer.Key, tokenMint, mintAuthority, reviewerTokens, tokenProgram, AddReviewRewardAmount)
}

func (p *Processor) updateReview(ctx solana.InvokeContext, args *UpdateReviewInstructionArgs) error {
	log := p.log.WithField("method", "updateReview")

	accounts, err := loadAccounts(ctx, 2)
	if err != nil {
		return err
	}

	initializer := accounts[0]
	reviewAccount := accounts[1]

	if !bytes.Equal(reviewAccount.Owner, PROGRAM_ID) {
		return solana.ErrInvalidAccountOwner
	}
	if !initializer.IsSigner {
		return solana.ErrMissingSignature
	}

	var record Review
	if err := record.Unmarshal(reviewAccount.Data); err != nil {
		return err
	}

	// The stored title is authoritative for derivation; the request title
	// only participates in the size check below.
	review, _, err := GetReviewAddress(&GetReviewAddressArgs{
		Author: initializer.Key,
		Title:  record.Title,
	})
	if err != nil {
		return err
	}
	if !bytes.Equal(review, reviewAccount.Key) {
		return ErrorInvalidPDA
	}

	if !record.IsInitialized() {
		return ErrorUninitializedAccount
	}

	if args.Rating > 5 || args.Rating < 1 {
		return ErrorInvalidRating
	}

	if GetReviewAccountSize(args.Title, args.Description) > ReviewAccountSize {
		return ErrorInvalidDataLength
	}

	log.WithFields(logrus.Fields{
		"review": base58.Encode(review),
		"rating": args.Rating,
	}).Debug("updating review")

	record.Rating = args.Rating
	record.Description = args.Description
	copy(reviewAccount.Data, record.Marshal())

	return nil
}

func (p *Processor) addComment(ctx solana.InvokeContext, args *AddCommentInstructionArgs) error {
	log := p.log.WithField("method", "addComment")

	accounts, err := loadAccounts(ctx, 9)
	if err != nil {
		return err
	}

	commenter := accounts[0]
	reviewAccount := accounts[1]
	counterAccount := accounts[2]
	commentAccount := accounts[3]
	tokenMint := accounts[4]
	mintAuthority := accounts[5]
	commenterTokens := accounts[6]
	tokenProgram := accounts[8]

	var counterRecord CommentCounter
	if err := counterRecord.Unmarshal(counterAccount.Data); err != nil {
		return err
	}

	comment, bump, err := GetCommentAddress(&GetCommentAddressArgs{
		Review: reviewAccount.Key,
		Count:  counterRecord.Count,
	})
	if err != nil {
		return err
	}
	if !bytes.Equal(comment, commentAccount.Key) {
		return ErrorInvalidPDA
	}

	countSeed := make([]byte, 8)
	binary.BigEndian.PutUint64(countSeed, counterRecord.Count)

	size := uint64(GetCommentAccountSize(args.Body))
	err = ctx.InvokeSigned(
		system.CreateAccount(
			commenter.Key,
			commentAccount.Key,
			PROGRAM_ID,
			ctx.MinimumBalance(size),
			size,
		),
		[][]byte{reviewAccount.Key, countSeed, {bump}},
	)
	if err != nil {
		return err
	}

	var record Comment
	if err := record.Unmarshal(commentAccount.Data); err != nil {
		return err
	}
	if record.IsInitialized() {
		return solana.ErrAccountAlreadyInitialized
	}

	record.Initialized = true
	record.Review = reviewAccount.Key
	record.Commenter = commenter.Key
	record.Body = args.Body
	record.Count = counterRecord.Count
	copy(commentAccount.Data, record.Marshal())

	log.WithFields(logrus.Fields{
		"comment": base58.Encode(comment),
		"count":   counterRecord.Count,
	}).Debug("comment account created")

	counterRecord.Count++
	copy(counterAccount.Data, counterRecord.Marshal())

	return p.mintReward(ctx, commenter.Key, tokenMint, mintAuthority, commenterTokens, tokenProgram, AddCommentRewardAmount)
}

func (p *Processor) initializeMint(ctx solana.InvokeContext) error {
	log := p.log.WithField("method", "initializeMint")

	accounts, err := loadAccounts(ctx, 5)
	if err != nil {
		return err
	}

	initializer := accounts[0]
	tokenMint := accounts[1]
	mintAuthority := accounts[2]
	tokenProgram := accounts[4]

	mint, bump, err := GetTokenMintAddress()
	if err != nil {
		return err
	}
	authority, _, err := GetMintAuthorityAddress()
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"mint":      base58.Encode(mint),
		"authority": base58.Encode(authority),
	}).Debug("initializing reward mint")

	if !bytes.Equal(mint, tokenMint.Key) {
		return ErrorIncorrectAccount
	}
	if !bytes.Equal(token.ProgramKey, tokenProgram.Key) {
		return ErrorIncorrectAccount
	}
	if !bytes.Equal(authority, mintAuthority.Key) {
		return ErrorIncorrectAccount
	}

	err = ctx.InvokeSigned(
		system.CreateAccount(
			initializer.Key,
			tokenMint.Key,
			token.ProgramKey,
			ctx.MinimumBalance(token.MintSize),
			token.MintSize,
		),
		[][]byte{tokenMintSeed, {bump}},
	)
	if err != nil {
		return err
	}

	return ctx.InvokeSigned(
		token.InitializeMint2(tokenMint.Key, mintAuthority.Key, nil, RewardMintDecimals),
		[][]byte{tokenMintSeed, {bump}},
	)
}

// mintReward checks the reward accounts against their derived values, then
// mints amount to the wallet's associated token account, signing as the
// derived mint authority.
func (p *Processor) mintReward(ctx solana.InvokeContext, wallet ed25519.PublicKey, tokenMint, mintAuthority, destination, tokenProgram *solana.AccountInfo, amount uint64) error {
	mint, _, err := GetTokenMintAddress()
	if err != nil {
		return err
	}
	authority, authorityBump, err := GetMintAuthorityAddress()
	if err != nil {
		return err
	}

	if !bytes.Equal(mint, tokenMint.Key) {
		return ErrorIncorrectAccount
	}
	if !bytes.Equal(authority, mintAuthority.Key) {
		return ErrorInvalidPDA
	}

	ata, err := token.GetAssociatedAccount(wallet, tokenMint.Key)
	if err != nil {
		return err
	}
	if !bytes.Equal(ata, destination.Key) {
		return ErrorIncorrectAccount
	}
	if !bytes.Equal(token.ProgramKey, tokenProgram.Key) {
		return ErrorIncorrectAccount
	}

	p.log.WithFields(logrus.Fields{
		"destination": base58.Encode(destination.Key),
		"amount":      amount,
	}).Debug("minting reward")

	return ctx.InvokeSigned(
		token.MintTo(tokenMint.Key, destination.Key, mintAuthority.Key, amount),
		[][]byte{tokenAuthSeed, {authorityBump}},
	)
}

func loadAccounts(ctx solana.InvokeContext, n int) ([]*solana.AccountInfo, error) {
	accounts := make([]*solana.AccountInfo, n)
	for i := range accounts {
		account, err := ctx.Account(i)
		if err != nil {
			return nil, err
		}
		accounts[i] = account
	}
	return accounts, nil
}
