package solanatx

import "encoding/binary"

// AccountMeta describes one account reference within an instruction.
type AccountMeta struct {
	Pubkey     [32]byte
	IsSigner   bool
	IsWritable bool
}

// Instruction is a single Solana instruction: the program to invoke, the
// accounts it touches, and its opaque instruction data.
type Instruction struct {
	ProgramID [32]byte
	Accounts  []AccountMeta
	Data      []byte
}

const (
	systemInstructionTransfer     uint32 = 2
	systemInstructionCreateAcct   uint32 = 0
	tokenInstructionTransfer      byte   = 3
	tokenInstructionMintTo        byte   = 7
	tokenInstructionTransferCheck byte   = 12
	tokenInstructionInitMint2     byte   = 20
	tokenInstructionMintToChecked byte   = 14
)

// SystemTransfer builds the native SOL transfer instruction:
// system_transfer(from=APK, to=recipient, lamports=raw_u64_le).
func SystemTransfer(from, to [32]byte, lamports uint64) Instruction {
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data[0:4], systemInstructionTransfer)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	return Instruction{
		ProgramID: SystemProgramID(),
		Accounts: []AccountMeta{
			{Pubkey: from, IsSigner: true, IsWritable: true},
			{Pubkey: to, IsSigner: false, IsWritable: true},
		},
		Data: data,
	}
}

// Memo builds an SPL Memo instruction carrying utf8Memo as opaque data.
func Memo(utf8Memo []byte) Instruction {
	return Instruction{
		ProgramID: MemoProgramID(),
		Accounts:  nil,
		Data:      append([]byte{}, utf8Memo...),
	}
}

// CreateAssociatedTokenAccount builds the instruction that creates the
// associated token account for (owner, mint), paid for by payer.
func CreateAssociatedTokenAccount(payer, owner, mint [32]byte) (Instruction, error) {
	ata, err := DeriveATA(owner, mint)
	if err != nil {
		return Instruction{}, err
	}

	return Instruction{
		ProgramID: AssociatedTokenProgramID(),
		Accounts: []AccountMeta{
			{Pubkey: payer, IsSigner: true, IsWritable: true},
			{Pubkey: ata, IsSigner: false, IsWritable: true},
			{Pubkey: owner, IsSigner: false, IsWritable: false},
			{Pubkey: mint, IsSigner: false, IsWritable: false},
			{Pubkey: SystemProgramID(), IsSigner: false, IsWritable: false},
			{Pubkey: TokenProgramID(), IsSigner: false, IsWritable: false},
		},
		Data: nil,
	}, nil
}

// TransferChecked builds the SPL token transfer_checked instruction:
// accounts = {source ATA, mint, destination ATA, authority}, data =
// (opcode, amount as little-endian u64, decimals as u8).
func TransferChecked(sourceATA, mint, destinationATA, authority [32]byte, amount uint64, decimals uint8) Instruction {
	data := make([]byte, 0, 10)
	data = append(data, tokenInstructionTransferCheck)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = append(data, decimals)

	return Instruction{
		ProgramID: TokenProgramID(),
		Accounts: []AccountMeta{
			{Pubkey: sourceATA, IsSigner: false, IsWritable: true},
			{Pubkey: mint, IsSigner: false, IsWritable: false},
			{Pubkey: destinationATA, IsSigner: false, IsWritable: true},
			{Pubkey: authority, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}
}

// TokenTransfer builds the plain (non-checked) SPL token transfer
// instruction, used only by the single-signer convenience path in
// internal/solanatoken, never by the MuSig2 aggregate-and-broadcast path.
func TokenTransfer(source, destination, authority [32]byte, amount uint64) Instruction {
	data := make([]byte, 0, 9)
	data = append(data, tokenInstructionTransfer)
	data = binary.LittleEndian.AppendUint64(data, amount)

	return Instruction{
		ProgramID: TokenProgramID(),
		Accounts: []AccountMeta{
			{Pubkey: source, IsSigner: false, IsWritable: true},
			{Pubkey: destination, IsSigner: false, IsWritable: true},
			{Pubkey: authority, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}
}

// MintTo builds the SPL token mint_to instruction.
func MintTo(mint, destination, authority [32]byte, amount uint64) Instruction {
	data := make([]byte, 0, 9)
	data = append(data, tokenInstructionMintTo)
	data = binary.LittleEndian.AppendUint64(data, amount)

	return Instruction{
		ProgramID: TokenProgramID(),
		Accounts: []AccountMeta{
			{Pubkey: mint, IsSigner: false, IsWritable: true},
			{Pubkey: destination, IsSigner: false, IsWritable: true},
			{Pubkey: authority, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}
}

// MintToChecked builds the SPL token mint_to_checked instruction, which
// the token program rejects if decimals does not match the mint's
// actual on-chain decimals. This is the only mint-to path this project
// exposes: internal/solanatoken never calls the plain MintTo.
func MintToChecked(mint, destination, authority [32]byte, amount uint64, decimals uint8) Instruction {
	data := make([]byte, 0, 10)
	data = append(data, tokenInstructionMintToChecked)
	data = binary.LittleEndian.AppendUint64(data, amount)
	data = append(data, decimals)

	return Instruction{
		ProgramID: TokenProgramID(),
		Accounts: []AccountMeta{
			{Pubkey: mint, IsSigner: false, IsWritable: true},
			{Pubkey: destination, IsSigner: false, IsWritable: true},
			{Pubkey: authority, IsSigner: true, IsWritable: false},
		},
		Data: data,
	}
}

// CreateAccount builds the System program's create_account instruction,
// used to allocate space for a new mint account before InitializeMint2.
func CreateAccount(from, newAccount [32]byte, lamports, space uint64, owner [32]byte) Instruction {
	data := make([]byte, 4+8+8+32)
	binary.LittleEndian.PutUint32(data[0:4], systemInstructionCreateAcct)
	binary.LittleEndian.PutUint64(data[4:12], lamports)
	binary.LittleEndian.PutUint64(data[12:20], space)
	copy(data[20:52], owner[:])

	return Instruction{
		ProgramID: SystemProgramID(),
		Accounts: []AccountMeta{
			{Pubkey: from, IsSigner: true, IsWritable: true},
			{Pubkey: newAccount, IsSigner: true, IsWritable: true},
		},
		Data: data,
	}
}

// InitializeMint2 builds the SPL token InitializeMint2 instruction
// (instruction 20), which unlike InitializeMint does not require the
// rent sysvar account.
func InitializeMint2(mint [32]byte, decimals uint8, mintAuthority [32]byte, freezeAuthority *[32]byte) Instruction {
	data := make([]byte, 0, 1+1+32+1+32)
	data = append(data, tokenInstructionInitMint2, decimals)
	data = append(data, mintAuthority[:]...)
	if freezeAuthority != nil {
		data = append(data, 1)
		data = append(data, freezeAuthority[:]...)
	} else {
		data = append(data, 0)
	}

	return Instruction{
		ProgramID: TokenProgramID(),
		Accounts: []AccountMeta{
			{Pubkey: mint, IsSigner: false, IsWritable: true},
		},
		Data: data,
	}
}
