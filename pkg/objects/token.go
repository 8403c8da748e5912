package objects

import "github.com/nautilus-project/nautilus/pkg/program"

// MintState is the stored layout of a mint account.
type MintState struct {
	MintAuthority program.Pubkey
	Supply        uint64
	Decimals      uint8
	IsInitialized bool
}

// Mint is a token mint owned by the token program.
type Mint struct {
	base
	TokenProgram *program.AccountInfo
	State        *MintState
}

func NewMint(ctx *program.Context, self, tokenProgram *program.AccountInfo, load bool) (Mint, error) {
	m := Mint{base: base{ctx: ctx, account: self}, TokenProgram: tokenProgram}
	if load {
		var st MintState
		if err := program.DecodeAccountData(self, &st); err != nil {
			return m, err
		}
		m.State = &st
	}
	return m, nil
}

// MetadataState is the stored layout of a token metadata account.
type MetadataState struct {
	Mint            program.Pubkey
	UpdateAuthority program.Pubkey
	Title           string
	Symbol          string
	URI             string
}

// Metadata is a token metadata account owned by the token metadata program.
type Metadata struct {
	base
	TokenMetadataProgram *program.AccountInfo
	State                *MetadataState
}

func NewMetadata(ctx *program.Context, self, tokenMetadataProgram *program.AccountInfo, load bool) (Metadata, error) {
	md := Metadata{base: base{ctx: ctx, account: self}, TokenMetadataProgram: tokenMetadataProgram}
	if load {
		var st MetadataState
		if err := program.DecodeAccountData(self, &st); err != nil {
			return md, err
		}
		md.State = &st
	}
	return md, nil
}

// Token pairs a mint with its metadata account. Account level queries go to the mint.
type Token struct {
	Mint
	Metadata Metadata
}

func NewToken(ctx *program.Context, self, metadata, tokenProgram, tokenMetadataProgram *program.AccountInfo, load bool) (Token, error) {
	mint, err := NewMint(ctx, self, tokenProgram, load)
	if err != nil {
		return Token{}, err
	}
	md, err := NewMetadata(ctx, metadata, tokenMetadataProgram, load)
	if err != nil {
		return Token{}, err
	}
	return Token{Mint: mint, Metadata: md}, nil
}

// TokenAccountState is the stored layout of an associated token account.
type TokenAccountState struct {
	Mint   program.Pubkey
	Owner  program.Pubkey
	Amount uint64
}

// AssociatedTokenAccount holds a wallet's balance of one mint.
type AssociatedTokenAccount struct {
	base
	MintAccount            *program.AccountInfo
	TokenProgram           *program.AccountInfo
	AssociatedTokenProgram *program.AccountInfo
	State                  *TokenAccountState
}

func NewAssociatedTokenAccount(ctx *program.Context, self, mint, tokenProgram, associatedTokenProgram *program.AccountInfo, load bool) (AssociatedTokenAccount, error) {
	ata := AssociatedTokenAccount{
		base:                   base{ctx: ctx, account: self},
		MintAccount:            mint,
		TokenProgram:           tokenProgram,
		AssociatedTokenProgram: associatedTokenProgram,
	}
	if load {
		var st TokenAccountState
		if err := program.DecodeAccountData(self, &st); err != nil {
			return ata, err
		}
		if st.Mint != mint.Key {
			return ata, program.NewError(program.KindInvalidAccountData, "token account %s belongs to mint %s, not %s", self.Key, st.Mint, mint.Key)
		}
		ata.State = &st
	}
	return ata, nil
}

// CreateMint initializes a new mint with authority taken from the creation accounts.
func CreateMint(c *Create[Mint], decimals uint8) error {
	if c.MintAuthority == nil || !c.MintAuthority.IsSigner {
		return program.NewError(program.KindMissingRequiredSignature, "mint authority must sign")
	}
	st := MintState{MintAuthority: c.MintAuthority.Key, Decimals: decimals, IsInitialized: true}
	if err := initialize(c, program.TokenProgramID, st); err != nil {
		return err
	}
	c.Self.State = &st
	return nil
}

// CreateToken creates the mint and its metadata in one step.
func CreateToken(c *Create[Token], decimals uint8, title, symbol, uri string) error {
	mint := NewCreate(c.ctx, c.Self.Mint, c.CreateAccounts)
	if err := CreateMint(&mint, decimals); err != nil {
		return err
	}
	c.Self.Mint = mint.Self

	md := c.Self.Metadata
	st := MetadataState{
		Mint:            c.Self.Key(),
		UpdateAuthority: c.MintAuthority.Key,
		Title:           title,
		Symbol:          symbol,
		URI:             uri,
	}
	metaCreate := NewCreate(c.ctx, md, c.CreateAccounts)
	if err := initialize(&metaCreate, program.TokenMetadataProgramID, st); err != nil {
		return err
	}
	c.Self.Metadata.State = &st
	return nil
}
